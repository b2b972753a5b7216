package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/addressbook/internal/config"
	"github.com/roach88/addressbook/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Database failure while running a command
	ExitCommandError = 2 // Command error (bad arguments, config not found or malformed, etc.)
)

// Error codes used in structured output.
const (
	CodeUsage    = "USAGE"
	CodeConfig   = "CONFIG"
	CodeDatabase = "DATABASE"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// databaseError marks a store failure. Nil stays nil.
func databaseError(err error) error {
	if err == nil {
		return nil
	}
	return WrapExitError(ExitFailure, "Database error", err)
}

// errorCode classifies err for structured output.
func errorCode(err error) string {
	var fe *config.FileError
	switch {
	case store.IsStoreError(err):
		return CodeDatabase
	case errors.As(err, &fe), errors.Is(err, config.ErrNoDatabase):
		return CodeConfig
	default:
		return CodeUsage
	}
}

// OutputFormatter renders command results as text, table, JSON or YAML.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for errors (defaults to Writer)
	Verbose   bool
	Styles    *Styles // Terminal styles for text errors (optional)
}

// CLIResponse is the standard structured response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`                   // "ok" or "error"
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code" yaml:"code"`                           // CodeUsage, CodeConfig, CodeDatabase
	Message string `json:"message" yaml:"message"`                     // human-readable message
	Details any    `json:"details,omitempty" yaml:"details,omitempty"` // additional context
}

// structured reports whether results are encoded rather than printed.
func (f *OutputFormatter) structured() bool {
	return f.Format == "json" || f.Format == "yaml"
}

func (f *OutputFormatter) encode(w io.Writer, resp CLIResponse) error {
	if f.Format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	}
	return json.NewEncoder(w).Encode(resp)
}

// Success outputs a successful result in the configured format.
// Structured formats encode data. Text and table formats call text, or
// print data when text is nil.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.structured() {
		return f.encode(f.Writer, CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	if text != nil {
		return text(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.structured() {
		return f.encode(f.Writer, CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	line := fmt.Sprintf("Error [%s]: %s\n", code, message)
	if f.Styles != nil {
		line = renderLines(f.Styles.Error, line)
	}
	fmt.Fprint(w, line)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
