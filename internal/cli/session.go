package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/addressbook/internal/config"
	"github.com/roach88/addressbook/internal/store"
)

// Session is an open address book plus the configuration it was opened with.
// A shell keeps one Session for its whole lifetime; a one-shot subcommand
// opens and closes its own.
type Session struct {
	ID     string
	Config *config.Config
	Store  *store.Store
	Logger *slog.Logger
}

// NewSession wraps an already open store. The caller keeps ownership of st.
func NewSession(st *store.Store, cfg *config.Config, logger *slog.Logger) *Session {
	id := uuid.Must(uuid.NewV7()).String()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		ID:     id,
		Config: cfg,
		Store:  st,
		Logger: logger.With("session", id),
	}
}

// OpenSession resolves configuration for cmd and opens the database it names.
// args may carry the positional database location.
func OpenSession(cmd *cobra.Command, opts *RootOptions, args []string) (*Session, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: opts.ConfigFile,
		Flags:      cmd.Flags(),
		Args:       args,
	})
	if err != nil {
		var fe *config.FileError
		if errors.As(err, &fe) {
			return nil, WrapExitError(ExitCommandError, "JSON error", err)
		}
		return nil, WrapExitError(ExitCommandError, "configuration error", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, NewExitError(ExitCommandError, config.NoDatabaseHint)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.Verbose)

	st, err := store.Open(cfg.Database,
		store.WithDriver(cfg.Driver),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, databaseError(err)
	}

	s := NewSession(st, cfg, logger)
	s.Logger.Debug("session opened", "database", cfg.Database, "driver", cfg.Driver)
	return s, nil
}

// Close closes the session's store.
func (s *Session) Close() error {
	s.Logger.Debug("session closed")
	return s.Store.Close()
}

// withSession runs fn against the shell's session if one is active, or opens
// a session for the duration of a one-shot command.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *Session, out *OutputFormatter) error) error {
	s := opts.session
	if s == nil {
		opened, err := OpenSession(cmd, opts, nil)
		if err != nil {
			return err
		}
		defer func() { _ = opened.Close() }()
		s = opened
	}

	out := &OutputFormatter{
		Format:    s.Config.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if err := fn(cmd.Context(), s, out); err != nil {
		s.Logger.Debug("command failed", "command", cmd.Name(), "error", err)
		return err
	}
	return nil
}

// banner is printed when a shell starts.
func banner(uri string) string {
	return fmt.Sprintf("Address Book Program\n--------------------\nUsing database at %q\n", uri)
}
