package store

import "errors"

// ErrClosed is wrapped by a StoreError when an operation runs after Close.
var ErrClosed = errors.New("store is closed")

// StoreError reports a failure of the storage engine.
//
// Op names the store operation ("open", "add record", ...). Err carries the
// driver's native error and is reachable through errors.Unwrap.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying driver error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapErr returns nil for a nil err, otherwise a *StoreError for op.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err is or wraps a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
