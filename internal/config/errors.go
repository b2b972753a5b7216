package config

import (
	"errors"
	"fmt"
)

// ErrNoDatabase means no source named a database.
var ErrNoDatabase = errors.New("database location not found")

// NoDatabaseHint is what the user is told when ErrNoDatabase occurs.
const NoDatabaseHint = "The URI to the database file is not found. " +
	"Provide the URI as an argument when running the program or specify it with config.json."

// FileError reports an unreadable or malformed config file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
