// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows web and CLI tests to run without SQLite

package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
// Setting Err makes every subsequent operation fail with it.
type MockStore struct {
	mu       sync.RWMutex
	messages []Message
	nextID   int64
	closed   bool

	Err error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{nextID: 1}
}

// EnsureSchema is a no-op unless Err is set.
func (m *MockStore) EnsureSchema(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Err
}

// Insert appends a message, skipping empty input like SQLiteStore.
func (m *MockStore) Insert(ctx context.Context, text, handle string) (InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return InsertResult{}, m.Err
	}
	if !validInput(text, handle) {
		return InsertResult{Outcome: OutcomeSkippedEmpty}, nil
	}

	id := m.nextID
	m.nextID++
	m.messages = append(m.messages, Message{ID: id, Text: text, Handle: handle})
	return InsertResult{ID: id, Outcome: OutcomeStored}, nil
}

// SampleRandom returns up to n messages in random order.
func (m *MockStore) SampleRandom(ctx context.Context, n int) ([]Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleSize, n)
	}

	order := rand.Perm(len(m.messages))
	if n < len(order) {
		order = order[:n]
	}

	samples := make([]Sample, 0, len(order))
	for _, i := range order {
		samples = append(samples, Sample{Text: m.messages[i].Text, Handle: m.messages[i].Handle})
	}
	return samples, nil
}

// AllMessages returns a copy of every stored message.
func (m *MockStore) AllMessages(ctx context.Context) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// Count returns the number of stored messages.
func (m *MockStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.messages), nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// SetErr changes the injected error under the lock.
func (m *MockStore) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Compile-time interface checks
var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MockStore)(nil)
)
