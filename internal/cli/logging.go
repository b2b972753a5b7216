package cli

import (
	"io"
	"log/slog"
)

// newLogger builds the text logger used for diagnostics. --verbose forces
// debug; otherwise the configured level applies, falling back to info.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	} else if level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err == nil {
			logLevel = parsed
		}
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}
