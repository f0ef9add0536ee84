// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite or mattn/go-sqlite3
// ABOUTME: Each operation acquires a dedicated connection, ensures the schema, and releases the connection

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names accepted by WithDriver
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// DefaultBusyTimeout is how long a connection waits on a locked database before failing
const DefaultBusyTimeout = 5 * time.Second

const schema = `
	CREATE TABLE IF NOT EXISTS messages (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		message TEXT,
		handle  TEXT
	);
`

// requiredColumns must all be present for an existing messages table to be usable
var requiredColumns = []string{"id", "message", "handle"}

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db          *sql.DB
	path        string
	busyTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a SQLiteStore
type Option func(*options)

type options struct {
	driver      string
	busyTimeout time.Duration
	logger      *slog.Logger
}

// WithDriver selects the database/sql driver, DriverModernc (default) or DriverMattn
func WithDriver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.driver = name
		}
	}
}

// WithBusyTimeout sets the per-connection lock wait. Zero keeps DefaultBusyTimeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// WithLogger sets the parent logger; the store adds its own component attribute
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewSQLiteStore prepares a store backed by the SQLite file at path.
// Parent directories are created if needed. The file itself is not touched until the
// first operation, which also creates the schema.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	o := options{
		driver:      DriverModernc,
		busyTimeout: DefaultBusyTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.driver != DriverModernc && o.driver != DriverMattn {
		return nil, fmt.Errorf("unsupported sqlite driver %q", o.driver)
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating database directory: %w", ErrStorageUnavailable, err)
	}

	db, err := sql.Open(o.driver, path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", ErrStorageUnavailable, err)
	}

	logger := o.logger.With("component", "store")
	logger.Info("SQLite store prepared", "path", path, "driver", o.driver)

	return &SQLiteStore{
		db:          db,
		path:        path,
		busyTimeout: o.busyTimeout,
		logger:      logger,
	}, nil
}

// Close closes the database handle and every idle connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// acquire takes a dedicated connection for one operation. Callers must Close it.
func (s *SQLiteStore) acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring connection: %w", ErrStorageUnavailable, err)
	}

	pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds())
	if _, err := conn.ExecContext(ctx, pragma); err != nil {
		s.release(conn)
		return nil, fmt.Errorf("%w: setting busy timeout: %w", ErrStorageUnavailable, err)
	}

	return conn, nil
}

// release returns the connection; a failed close is logged, never surfaced
func (s *SQLiteStore) release(conn *sql.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.Warn("failed to release connection", "error", err)
	}
}

// withConn runs fn on a freshly acquired connection with the schema in place.
// The connection is released on every exit path.
func (s *SQLiteStore) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer s.release(conn)

	if err := s.ensureSchema(ctx, conn); err != nil {
		return err
	}

	return fn(conn)
}

// EnsureSchema creates the messages table if it does not exist.
// It is safe to call any number of times and never touches existing rows.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	return s.withConn(ctx, func(*sql.Conn) error { return nil })
}

// ensureSchema applies the table definition and checks an existing table has the expected columns
func (s *SQLiteStore) ensureSchema(ctx context.Context, conn *sql.Conn) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: creating messages table: %w", ErrSchema, err)
	}

	rows, err := conn.QueryContext(ctx, `SELECT name FROM pragma_table_info('messages')`)
	if err != nil {
		return fmt.Errorf("%w: inspecting messages table: %w", ErrSchema, err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("%w: scanning table info: %w", ErrSchema, err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating table info: %w", ErrSchema, err)
	}

	for _, col := range requiredColumns {
		if !present[col] {
			return fmt.Errorf("%w: messages table is missing column %q", ErrSchema, col)
		}
	}

	return nil
}

// Insert appends one message inside its own transaction.
// Empty text or handle is dropped silently and reported as OutcomeSkippedEmpty.
func (s *SQLiteStore) Insert(ctx context.Context, text, handle string) (InsertResult, error) {
	var result InsertResult

	err := s.withConn(ctx, func(conn *sql.Conn) error {
		if !validInput(text, handle) {
			result.Outcome = OutcomeSkippedEmpty
			return nil
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: beginning transaction: %w", ErrWrite, err)
		}
		defer tx.Rollback() //nolint:errcheck // no-op after Commit

		res, err := tx.ExecContext(ctx,
			`INSERT INTO messages (message, handle) VALUES (?, ?)`,
			text, handle,
		)
		if err != nil {
			return fmt.Errorf("%w: inserting message: %w", ErrWrite, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w: reading inserted id: %w", ErrWrite, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: committing message: %w", ErrWrite, err)
		}

		result = InsertResult{ID: id, Outcome: OutcomeStored}
		return nil
	})
	if err != nil {
		return InsertResult{}, err
	}

	if result.Skipped() {
		s.logger.Debug("skipped message with empty field",
			"empty_message", text == "",
			"empty_handle", handle == "",
		)
	} else {
		s.logger.Debug("stored message", "id", result.ID, "handle", handle)
	}
	return result, nil
}

// SampleRandom returns min(n, count) messages chosen uniformly at random without replacement.
// The selection is re-randomized on every call. No upper bound is applied to n.
func (s *SQLiteStore) SampleRandom(ctx context.Context, n int) ([]Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleSize, n)
	}

	samples := []Sample{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT message, handle FROM messages ORDER BY RANDOM() LIMIT ?`,
			int64(n),
		)
		if err != nil {
			return fmt.Errorf("%w: sampling messages: %w", ErrRead, err)
		}
		defer rows.Close()

		for rows.Next() {
			var sample Sample
			var text, handle sql.NullString
			if err := rows.Scan(&text, &handle); err != nil {
				return fmt.Errorf("%w: scanning sample: %w", ErrRead, err)
			}
			sample.Text = text.String
			sample.Handle = handle.String
			samples = append(samples, sample)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: iterating samples: %w", ErrRead, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return samples, nil
}

// AllMessages returns every stored message with its id, in insertion order
func (s *SQLiteStore) AllMessages(ctx context.Context) ([]Message, error) {
	messages := []Message{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT id, message, handle FROM messages ORDER BY id`)
		if err != nil {
			return fmt.Errorf("%w: listing messages: %w", ErrRead, err)
		}
		defer rows.Close()

		for rows.Next() {
			var msg Message
			var text, handle sql.NullString
			if err := rows.Scan(&msg.ID, &text, &handle); err != nil {
				return fmt.Errorf("%w: scanning message: %w", ErrRead, err)
			}
			msg.Text = text.String
			msg.Handle = handle.String
			messages = append(messages, msg)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: iterating messages: %w", ErrRead, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// Count returns the number of stored messages
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
			return fmt.Errorf("%w: counting messages: %w", ErrRead, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
