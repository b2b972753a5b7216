package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Driver names accepted by WithDriver.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// DefaultDriver is used when no WithDriver option is given.
const DefaultDriver = DriverCGO

// Store is the address book's data-access layer.
// It owns a single SQLite connection; a mutex serializes every operation.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
}

type options struct {
	driver string
	logger *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the database/sql driver name (DriverCGO or DriverPure).
// An empty name keeps the default.
func WithDriver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.driver = name
		}
	}
}

// WithLogger sets the logger used for statement-level debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open creates or opens the SQLite database at uri and ensures the contacts
// table exists. uri may be a plain path or a "file:" URI.
//
// Every failure is a *StoreError carrying the driver's message. If the
// connection was opened before the failure it is closed again.
func Open(uri string, opts ...Option) (*Store, error) {
	o := options{
		driver: DefaultDriver,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.driver != DriverCGO && o.driver != DriverPure {
		return nil, wrapErr("open", fmt.Errorf("unknown driver %q", o.driver))
	}

	db, err := sql.Open(o.driver, uri)
	if err != nil {
		return nil, wrapErr("open", err)
	}

	// sql.Open is lazy; Ping surfaces unreadable or uncreatable files.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrapErr("open", err)
	}

	// One connection: statements never interleave and an in-memory database
	// stays the same database for the lifetime of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, wrapErr("open", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, wrapErr("create schema", err)
	}

	o.logger.Debug("store opened", "uri", uri, "driver", o.driver)
	return newStore(db, o.logger), nil
}

// newStore wraps an already prepared connection. Tests use it with sqlmock.
func newStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Close releases the connection. Calls after the first are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return wrapErr("close", err)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// exec runs one mutating statement under the store lock.
func (s *Store) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, wrapErr(op, ErrClosed)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.DebugContext(ctx, "statement failed", "op", op, "error", err)
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// execAffected runs a mutating statement and returns the affected-row count.
func (s *Store) execAffected(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := s.exec(ctx, op, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, wrapErr(op, err)
	}

	s.logger.DebugContext(ctx, "statement done", "op", op, "rows_affected", n)
	return n, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
