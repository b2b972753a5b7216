package store

import (
	"context"

	"github.com/roach88/addressbook/internal/record"
)

// AddRecord inserts r as a new row and returns the id the engine assigned.
// r.ID is ignored.
func (s *Store) AddRecord(ctx context.Context, r record.Record) (int64, error) {
	const op = "add record"

	result, err := s.exec(ctx, op, `
		INSERT INTO contacts (first_name, last_name, email, telephone)
		VALUES (?, ?, ?, ?)
	`, recordArgs(r)...)
	if err != nil {
		return record.NoID, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return record.NoID, wrapErr(op, err)
	}

	s.logger.DebugContext(ctx, "record added", "id", id)
	return id, nil
}

// UpdateRecord replaces all four text fields of the row identified by id.
// Returns 0 if no row has that id.
func (s *Store) UpdateRecord(ctx context.Context, id int64, r record.Record) (int64, error) {
	args := append(recordArgs(r), id)
	return s.execAffected(ctx, "update record", `
		UPDATE contacts
		SET first_name = ?, last_name = ?, email = ?, telephone = ?
		WHERE id = ?
	`, args...)
}

// DeleteByID removes the row with the given id.
// Returns 0 if no such row exists.
func (s *Store) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return s.execAffected(ctx, "delete by id", `
		DELETE FROM contacts WHERE id = ?
	`, id)
}

// DeleteByName removes every row matching both names exactly.
func (s *Store) DeleteByName(ctx context.Context, firstName, lastName string) (int64, error) {
	return s.execAffected(ctx, "delete by name", `
		DELETE FROM contacts WHERE first_name = ? AND last_name = ?
	`, textArgs(firstName, lastName)...)
}

// DeleteByFields removes every row whose four text fields all equal r's.
// r.ID is ignored.
func (s *Store) DeleteByFields(ctx context.Context, r record.Record) (int64, error) {
	return s.execAffected(ctx, "delete by fields", `
		DELETE FROM contacts
		WHERE first_name = ? AND last_name = ? AND email = ? AND telephone = ?
	`, recordArgs(r)...)
}

// ClearRecords removes every row and returns how many were removed.
// Confirmation is the caller's job.
func (s *Store) ClearRecords(ctx context.Context) (int64, error) {
	return s.execAffected(ctx, "clear records", `DELETE FROM contacts`)
}
