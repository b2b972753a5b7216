package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/addressbook/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml" | "table"
	ConfigFile string
	Database   string
	Driver     string

	// session is set while a shell runs, so menu commands reuse its store.
	session *Session
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml", "table"}

// NewRootCommand creates the root command for the addressbook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "addressbook [database]",
		Short: "A command-line address book backed by SQLite",
		Long: `A command-line address book backed by SQLite.

Without a subcommand, starts a shell that reads menu commands from the
terminal, or one per line from standard input when it is not a terminal.
Every menu command can also be run once as a subcommand.

The database location comes from, in order: the database argument, --db,
ADDRESSBOOK_DATABASE (also read from .env), or "database" in config.json.

Arguments that start with "-", such as a negative id, follow "--" when a
menu command is run as a subcommand. The shell takes them as they are.

Example:
  addressbook contacts.db
  addressbook --db contacts.db add Alice Smith alice@example.com 555-0100
  addressbook --db contacts.db delete -- -1
  echo list | addressbook contacts.db --format table`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts, args)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml|table)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to JSON config file (default config.json)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path or URI of the SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "",
		fmt.Sprintf("SQLite driver (%s|%s, default %s)", store.DriverCGO, store.DriverPure, store.DefaultDriver))

	addMenuCommands(cmd, opts)

	return cmd
}

func runShell(cmd *cobra.Command, opts *RootOptions, args []string) error {
	s, err := OpenSession(cmd, opts, args)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	in := cmd.InOrStdin()
	text := banner(s.Config.Database)
	if isTerminal(in) {
		text = renderLines(NewStyles().Title, text)
	}
	fmt.Fprint(cmd.OutOrStdout(), text)

	sh := NewShell(s, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return sh.Run(cmd.Context(), in)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
