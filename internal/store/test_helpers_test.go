package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/addressbook/internal/record"
)

// drivers lists every driver the store must behave identically on.
var drivers = []string{DriverCGO, DriverPure}

// createTestStore opens a store backed by a file in a temp dir.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachDriver runs fn as a subtest against a fresh store per driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, s *Store)) {
	t.Helper()
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, createTestStore(t, WithDriver(driver)))
		})
	}
}

// seed adds the records and returns their ids in order.
func seed(t *testing.T, s *Store, records ...record.Record) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		id, err := s.AddRecord(context.Background(), r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

var (
	alice = record.New("Alice", "Smith", "a@x", "111")
	bob   = record.New("Bob", "Jones", "b@x", "222")
)
