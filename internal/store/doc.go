// Package store provides SQLite-backed durable storage for address book
// records.
//
// The store owns exactly one database connection and one table:
//
//	contacts(id, first_name, last_name, email, telephone)
//
// # Conventions
//
// Row identity: id is an explicit INTEGER PRIMARY KEY AUTOINCREMENT column.
// record.NoID (-1) is never stored; it signals "not persisted" or "not found".
//
// Binding: every statement is parameterized. Full records bind in the order
// (first_name, last_name, email, telephone); partial parameter lists bind
// left to right. User input is never concatenated into SQL.
//
// Results: "not found" and "zero rows affected" are ordinary return values.
// Only driver failures are errors, and they are always *StoreError.
//
// Ordering: list queries use ORDER BY id ASC, i.e. insertion order.
//
// # Database Configuration
//
//   - Single connection (SetMaxOpenConns(1)) plus a mutex: one statement at a time
//   - busy_timeout=5000: wait for file locks held by other processes
//
// Two drivers are supported: mattn/go-sqlite3 ("sqlite3", the default) and
// modernc.org/sqlite ("sqlite", pure Go). See WithDriver.
package store
