package store

import "github.com/roach88/addressbook/internal/record"

// recordArgs binds a full record in column order:
// first_name, last_name, email, telephone.
//
// database/sql converts every argument through driver.Value before the
// statement runs, and Go strings are immutable, so the statement never holds
// a reference into caller-owned memory.
func recordArgs(r record.Record) []any {
	return textArgs(r.Fields()...)
}

// textArgs binds values positionally, left to right.
func textArgs(values ...string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
