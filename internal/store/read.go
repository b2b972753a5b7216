package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/addressbook/internal/record"
)

const selectRecords = `SELECT id, first_name, last_name, email, telephone FROM contacts`

// GetRecordByName returns the first row (lowest id) whose first and last
// name both match exactly. Matching is case-sensitive.
//
// Returns record.Empty() (ID == record.NoID) and a nil error if nothing
// matches.
func (s *Store) GetRecordByName(ctx context.Context, firstName, lastName string) (record.Record, error) {
	const op = "get record by name"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return record.Empty(), wrapErr(op, ErrClosed)
	}

	row := s.db.QueryRowContext(ctx, selectRecords+`
		WHERE first_name = ? AND last_name = ?
		ORDER BY id ASC
		LIMIT 1
	`, textArgs(firstName, lastName)...)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Empty(), nil
	}
	if err != nil {
		return record.Empty(), wrapErr(op, err)
	}
	return r, nil
}

// GetRecords returns every row where ANY of the filter's four fields
// matches the corresponding column.
//
// Empty filter fields are not wildcards: they match rows whose column is the
// empty string. Callers should populate only the fields they search on.
func (s *Store) GetRecords(ctx context.Context, filter record.Record) ([]record.Record, error) {
	return s.queryRecords(ctx, "get records", selectRecords+`
		WHERE first_name = ? OR last_name = ? OR email = ? OR telephone = ?
		ORDER BY id ASC
	`, recordArgs(filter)...)
}

// GetAllRecords returns every row in insertion order.
// Returns an empty slice (not nil) for an empty table.
func (s *Store) GetAllRecords(ctx context.Context) ([]record.Record, error) {
	return s.queryRecords(ctx, "get all records", selectRecords+`
		ORDER BY id ASC
	`)
}

// Count returns the number of rows in the contacts table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	const op = "count records"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, wrapErr(op, ErrClosed)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, wrapErr(op, err)
	}
	return n, nil
}

// queryRecords runs a SELECT and hydrates every result row.
func (s *Store) queryRecords(ctx context.Context, op, query string, args ...any) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, wrapErr(op, ErrClosed)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}

	s.logger.DebugContext(ctx, "query done", "op", op, "rows", len(records))
	return records, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord hydrates one row selected with selectRecords.
func scanRecord(sc scanner) (record.Record, error) {
	var r record.Record
	if err := sc.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.Telephone); err != nil {
		return record.Record{}, err
	}
	return r, nil
}
