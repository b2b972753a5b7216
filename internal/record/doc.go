// Package record defines the contact value type shared by the store and the
// command line.
//
// A Record is identified by a store-assigned integer ID. NoID (-1) denotes a
// record that is not persisted, and is also what name lookup returns when
// nothing matches. Not-found is a value, never an error.
package record
