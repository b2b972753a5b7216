package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.db")

			s, err := Open(path, WithDriver(driver))
			require.NoError(t, err)
			defer s.Close()

			_, err = os.Stat(path)
			assert.NoError(t, err, "database file was not created")
		})
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.AddRecord(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetRecordByName(ctx, "Alice", "Smith")
	require.NoError(t, err)
	assert.True(t, got.SameFields(alice))
}

func TestOpen_DriversShareFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path, WithDriver(DriverCGO))
	require.NoError(t, err)
	_, err = s1.AddRecord(ctx, bob)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path, WithDriver(DriverPure))
	require.NoError(t, err)
	defer s2.Close()

	all, err := s2.GetAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].SameFields(bob))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		"contacts",
	).Scan(&name)
	assert.NoError(t, err, "contacts table not found after repeated opens")
}

func TestOpen_InMemoryURI(t *testing.T) {
	s, err := Open("file::memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, err = s.AddRecord(ctx, alice)
	require.NoError(t, err)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	require.Error(t, err)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "open", se.Op)
	assert.NotNil(t, se.Unwrap())
}

func TestOpen_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	garbage := make([]byte, 1024)
	for i := range garbage {
		garbage[i] = 'x'
	}
	require.NoError(t, os.WriteFile(path, garbage, 0o600))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "test.db"), WithDriver("postgres"))
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestClose_MultipleCalls(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestClosedStore_ReturnsStoreError(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ctx := context.Background()

	_, err = s.AddRecord(ctx, alice)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = s.GetRecordByName(ctx, "Alice", "Smith")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = s.GetAllRecords(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = s.Count(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = s.ClearRecords(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.True(t, IsStoreError(err))
}

func TestPragma_BusyTimeout(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
			t.Error(err)
		}
	})
}

func TestSchema_ContactsTable(t *testing.T) {
	s := createTestStore(t)

	rows, err := s.db.Query("PRAGMA table_info(contacts)")
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue any
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk))
		columns = append(columns, name)
		if name == "id" {
			assert.Equal(t, 1, pk, "id must be the primary key")
		}
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"id", "first_name", "last_name", "email", "telephone"}, columns)
}
