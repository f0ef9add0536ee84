// ABOUTME: Store interface, data types, and error taxonomy for message-bank persistence
// ABOUTME: Defines Message, Sample, InsertResult and the sentinel errors callers match with errors.Is

package store

import (
	"context"
	"errors"
)

// Errors returned by Store operations. Driver errors are wrapped together with one of
// these sentinels, so both errors.Is(err, ErrWrite) and the underlying cause are available.
var (
	// ErrStorageUnavailable is returned when a connection to the backing file cannot be opened
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrSchema is returned when the messages table cannot be created or has an incompatible shape
	ErrSchema = errors.New("schema error")

	// ErrWrite is returned when an insert or its commit fails
	ErrWrite = errors.New("write error")

	// ErrRead is returned when a query or row scan fails
	ErrRead = errors.New("read error")

	// ErrInvalidSampleSize is returned by SampleRandom for a negative sample size
	ErrInvalidSampleSize = errors.New("sample size must not be negative")
)

// Message is one stored row of the message bank
type Message struct {
	ID     int64
	Text   string // stored in the "message" column
	Handle string
}

// Sample is the projection returned by random sampling; the row id is not exposed
type Sample struct {
	Text   string
	Handle string
}

// Outcome describes what an Insert call did with its input
type Outcome int

const (
	// OutcomeStored means a new row was committed
	OutcomeStored Outcome = iota
	// OutcomeSkippedEmpty means the message or handle was empty and nothing was written
	OutcomeSkippedEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeSkippedEmpty:
		return "skipped_empty"
	default:
		return "unknown"
	}
}

// InsertResult reports the outcome of an Insert. ID is zero unless Outcome is OutcomeStored.
type InsertResult struct {
	ID      int64
	Outcome Outcome
}

// Skipped reports whether the insert was dropped because of empty input
func (r InsertResult) Skipped() bool {
	return r.Outcome == OutcomeSkippedEmpty
}

// Store defines the persistence operations of the message bank.
// Every operation acquires its own connection and releases it before returning.
type Store interface {
	// EnsureSchema creates the messages table if it does not exist
	EnsureSchema(ctx context.Context) error

	// Insert appends a message. Empty text or handle is not an error; the result reports
	// OutcomeSkippedEmpty and no row is created.
	Insert(ctx context.Context, text, handle string) (InsertResult, error)

	// SampleRandom returns at most n messages chosen uniformly at random without replacement
	SampleRandom(ctx context.Context, n int) ([]Sample, error)

	// AllMessages returns every stored message ordered by id
	AllMessages(ctx context.Context) ([]Message, error)

	// Count returns the number of stored messages
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store
	Close() error
}

// validInput reports whether both fields carry content. Values are checked as given,
// whitespace-only strings count as content.
func validInput(text, handle string) bool {
	return text != "" && handle != ""
}
