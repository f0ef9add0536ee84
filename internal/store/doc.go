// Package store provides persistent storage for the message bank using SQLite.
//
// # Architecture
//
// Store is the persistence interface consumed by the web layer. SQLiteStore implements it
// on a single on-disk table; MockStore is an in-memory stand-in for tests.
//
// Every SQLiteStore operation follows the same lifecycle:
//
//	acquire connection -> ensure schema -> execute -> commit (writes) -> release
//
// The connection is a dedicated *sql.Conn taken from the database/sql pool and released
// with a deferred Close, so no connection outlives the call that acquired it.
//
// # Schema
//
//	CREATE TABLE IF NOT EXISTS messages (
//		id      INTEGER PRIMARY KEY AUTOINCREMENT,
//		message TEXT,
//		handle  TEXT
//	);
//
// The statement runs on every operation. An existing table missing any of the three
// columns is reported as ErrSchema.
//
// # Drivers
//
//   - DriverModernc ("sqlite"): modernc.org/sqlite, pure Go, the default
//   - DriverMattn ("sqlite3"): github.com/mattn/go-sqlite3, needs a cgo build
//
// # Validation
//
// Insert with an empty message or handle writes nothing and returns a nil error. The
// returned InsertResult carries OutcomeSkippedEmpty so callers can tell the cases apart.
//
// # Error Handling
//
//   - ErrStorageUnavailable: the backing file cannot be opened
//   - ErrSchema: the table cannot be created or has the wrong shape
//   - ErrWrite: insert or commit failed, including lock waits past the busy timeout
//   - ErrRead: a query or scan failed
//   - ErrInvalidSampleSize: SampleRandom was called with a negative count
//
// Driver errors are wrapped alongside the sentinel; use errors.Is.
//
// # Testing
//
// Use NewMockStore() for handler tests and NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
// for integration tests with real SQLite.
package store
