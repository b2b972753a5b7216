package cli

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		want    slog.Level
	}{
		{"default", "", false, slog.LevelInfo},
		{"configured warn", "warn", false, slog.LevelWarn},
		{"configured debug", "debug", false, slog.LevelDebug},
		{"verbose wins", "error", true, slog.LevelDebug},
		{"unparseable", "loud", false, slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(&bytes.Buffer{}, tt.level, tt.verbose)
			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.want))
			assert.False(t, logger.Enabled(ctx, tt.want-1), "level below %v must be off", tt.want)
		})
	}
}

func TestNewSession_TagsLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSession(nil, nil, newLogger(buf, "debug", false))

	s.Logger.Debug("hello")
	assert.NotEmpty(t, s.ID)
	assert.Contains(t, buf.String(), "session="+s.ID)
}
