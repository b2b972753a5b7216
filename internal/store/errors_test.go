package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/addressbook/internal/record"
)

var errDisk = errors.New("disk I/O error")

// newMockStore wraps a sqlmock connection in a Store.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return newStore(db, nil), mock
}

func TestStoreError_Format(t *testing.T) {
	err := &StoreError{Op: "add record", Err: errDisk}
	assert.Equal(t, "add record: disk I/O error", err.Error())
	assert.ErrorIs(t, err, errDisk)

	assert.Equal(t, "open", (&StoreError{Op: "open"}).Error())
}

func TestStoreError_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("command failed: %w", wrapErr("delete by id", errDisk))
	assert.True(t, IsStoreError(wrapped))
	assert.False(t, IsStoreError(errDisk))
	assert.Nil(t, wrapErr("noop", nil))
}

func TestStoreErrors_PerOperation(t *testing.T) {
	ctx := context.Background()
	r := record.New("A", "B", "c", "d")

	tests := []struct {
		name   string
		op     string
		expect func(mock sqlmock.Sqlmock)
		call   func(s *Store) error
	}{
		{
			name: "add record",
			op:   "add record",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO contacts").
					WithArgs("A", "B", "c", "d").
					WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				id, err := s.AddRecord(ctx, r)
				assert.Equal(t, record.NoID, id)
				return err
			},
		},
		{
			name: "update record",
			op:   "update record",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE contacts").
					WithArgs("A", "B", "c", "d", int64(7)).
					WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.UpdateRecord(ctx, 7, r)
				return err
			},
		},
		{
			name: "delete by id",
			op:   "delete by id",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM contacts WHERE id").
					WithArgs(int64(3)).
					WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.DeleteByID(ctx, 3)
				return err
			},
		},
		{
			name: "delete by name",
			op:   "delete by name",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM contacts WHERE first_name").
					WithArgs("A", "B").
					WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.DeleteByName(ctx, "A", "B")
				return err
			},
		},
		{
			name: "delete by fields",
			op:   "delete by fields",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM contacts").
					WithArgs("A", "B", "c", "d").
					WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.DeleteByFields(ctx, r)
				return err
			},
		},
		{
			name: "clear records",
			op:   "clear records",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM contacts").WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.ClearRecords(ctx)
				return err
			},
		},
		{
			name: "get record by name",
			op:   "get record by name",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, first_name").
					WithArgs("A", "B").
					WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				got, err := s.GetRecordByName(ctx, "A", "B")
				assert.Equal(t, record.NoID, got.ID)
				return err
			},
		},
		{
			name: "get records",
			op:   "get records",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, first_name").
					WithArgs("A", "B", "c", "d").
					WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.GetRecords(ctx, r)
				return err
			},
		},
		{
			name: "get all records",
			op:   "get all records",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, first_name").WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.GetAllRecords(ctx)
				return err
			},
		},
		{
			name: "count records",
			op:   "count records",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contacts")).WillReturnError(errDisk)
			},
			call: func(s *Store) error {
				_, err := s.Count(ctx)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.expect(mock)

			err := tt.call(s)
			require.Error(t, err)

			var se *StoreError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.op, se.Op)
			assert.ErrorIs(t, err, errDisk)
			assert.Contains(t, err.Error(), "disk I/O error")
		})
	}
}

func TestZeroRowsAffected_IsNotAnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM contacts WHERE id").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := s.DeleteByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRowsAffectedFailure_IsStoreError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM contacts").
		WillReturnResult(sqlmock.NewErrorResult(errDisk))

	_, err := s.ClearRecords(context.Background())
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestLastInsertIDFailure_IsStoreError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnResult(sqlmock.NewErrorResult(errDisk))

	id, err := s.AddRecord(context.Background(), record.New("A", "B", "c", "d"))
	require.Error(t, err)
	assert.Equal(t, record.NoID, id)
	assert.True(t, IsStoreError(err))
}

func TestRowScanFailure_IsStoreError(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "telephone"}).
		AddRow("not-a-number", "A", "B", "c", "d")
	mock.ExpectQuery("SELECT id, first_name").WillReturnRows(rows)

	_, err := s.GetAllRecords(context.Background())
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestRowIterationFailure_IsStoreError(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "telephone"}).
		AddRow(int64(1), "A", "B", "c", "d").
		RowError(0, errDisk)
	mock.ExpectQuery("SELECT id, first_name").WillReturnRows(rows)

	_, err := s.GetAllRecords(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDisk)
}

func TestClose_PropagatesDriverError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectClose().WillReturnError(errDisk)

	err := s.Close()
	require.Error(t, err)
	assert.True(t, IsStoreError(err))

	assert.NoError(t, s.Close(), "second close is a no-op")
}
