package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"github.com/roach88/addressbook/internal/record"
)

// confirmToken must be passed to clear, compared case-insensitively.
const confirmToken = "yes"

// newMenuCommand builds the command tree the shell dispatches each line to.
// A fresh tree per line keeps flag values from leaking between commands.
func newMenuCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "addressbook",
		Short:         "Address book commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	addMenuCommands(cmd, opts)

	// Commands without flags of their own take every word as an argument,
	// so "delete -1" or a telephone like -5551234 is not read as a flag.
	for _, c := range cmd.Commands() {
		if !c.Flags().HasFlags() {
			c.DisableFlagParsing = true
		}
	}
	return cmd
}

// addMenuCommands attaches every menu command to parent.
func addMenuCommands(parent *cobra.Command, opts *RootOptions) {
	parent.AddCommand(
		newAddCommand(opts),
		newListCommand(opts),
		newGetCommand(opts),
		newSearchCommand(opts),
		newCountCommand(opts),
		newDeleteCommand(opts),
		newDeleteByNameCommand(opts),
		newDeleteByDetailsCommand(opts),
		newUpdateCommand(opts),
		newClearCommand(opts),
	)
}

// menuCommand fills in what every menu command shares.
func menuCommand(opts *RootOptions, cmd *cobra.Command, run func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error) *cobra.Command {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, opts, func(ctx context.Context, s *Session, out *OutputFormatter) error {
			return run(ctx, s, out, args)
		})
	}
	return cmd
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "add <first-name> <last-name> <email> <telephone>",
		Short: "Add a new record",
		Args:  cobra.ExactArgs(record.FieldCount),
	}, func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error {
		r, err := record.FromFields(args)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid record", err)
		}
		id, err := s.Store.AddRecord(ctx, r)
		if err != nil {
			return databaseError(err)
		}
		return out.Success(addResult{ID: id}, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Record #%d added.\n", id)
			return err
		})
	})
}

func newListCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "list",
		Short: "List all records",
		Args:  cobra.NoArgs,
	}, func(ctx context.Context, s *Session, out *OutputFormatter, _ []string) error {
		records, err := s.Store.GetAllRecords(ctx)
		if err != nil {
			return databaseError(err)
		}
		return renderRecords(out, records)
	})
}

func newGetCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "get <first-name> <last-name>",
		Short: "Show the first record with the given name",
		Args:  cobra.ExactArgs(2),
	}, func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error {
		r, err := s.Store.GetRecordByName(ctx, args[0], args[1])
		if err != nil {
			return databaseError(err)
		}
		return out.Success(r, func(w io.Writer) error {
			if !r.Persisted() {
				_, err := fmt.Fprintf(w, "The person \"%s %s\" does not exist.\n", args[0], args[1])
				return err
			}
			if out.Format == "table" {
				writeRecordTable(w, []record.Record{r})
				return nil
			}
			return r.Format(w)
		})
	})
}

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	FirstName string
	LastName  string
	Email     string
	Telephone string
}

func newSearchCommand(opts *RootOptions) *cobra.Command {
	searchOpts := &SearchOptions{}

	cmd := menuCommand(opts, &cobra.Command{
		Use:   "search",
		Short: "List records matching any of the given fields",
		Long: `List records where any one of the given fields matches exactly.

Fields that are not given match records where that field is empty.

Example:
  addressbook search --email alice@example.com --telephone 555-0100`,
		Args: cobra.NoArgs,
	}, func(ctx context.Context, s *Session, out *OutputFormatter, _ []string) error {
		filter := record.New(searchOpts.FirstName, searchOpts.LastName, searchOpts.Email, searchOpts.Telephone)
		records, err := s.Store.GetRecords(ctx, filter)
		if err != nil {
			return databaseError(err)
		}
		return renderRecords(out, records)
	})

	cmd.Flags().StringVar(&searchOpts.FirstName, "first-name", "", "first name to match")
	cmd.Flags().StringVar(&searchOpts.LastName, "last-name", "", "last name to match")
	cmd.Flags().StringVar(&searchOpts.Email, "email", "", "email to match")
	cmd.Flags().StringVar(&searchOpts.Telephone, "telephone", "", "telephone to match")

	return cmd
}

func newCountCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "count",
		Short: "Show the number of records",
		Args:  cobra.NoArgs,
	}, func(ctx context.Context, s *Session, out *OutputFormatter, _ []string) error {
		n, err := s.Store.Count(ctx)
		if err != nil {
			return databaseError(err)
		}
		return out.Success(countResult{Count: n}, func(w io.Writer) error {
			return writeTotal(w, n)
		})
	})
}

func newDeleteCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the record with the given id",
		Args:  cobra.ExactArgs(1),
	}, func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		n, err := s.Store.DeleteByID(ctx, id)
		if err != nil {
			return databaseError(err)
		}
		return renderAffected(out, n, fmt.Sprintf("Record #%d does not exist.", id))
	})
}

func newDeleteByNameCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "delete_by_name <first-name> <last-name>",
		Short: "Delete every record with the given name",
		Args:  cobra.ExactArgs(2),
	}, func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error {
		n, err := s.Store.DeleteByName(ctx, args[0], args[1])
		if err != nil {
			return databaseError(err)
		}
		return renderAffected(out, n, fmt.Sprintf("%s %s does not exist. Nothing done.", args[0], args[1]))
	})
}

func newDeleteByDetailsCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "delete_by_details <first-name> <last-name> <email> <telephone>",
		Short: "Delete every record matching all four fields",
	}, func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error {
		r, err := record.FromFields(args)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid record", err)
		}
		n, err := s.Store.DeleteByFields(ctx, r)
		if err != nil {
			return databaseError(err)
		}
		return renderAffected(out, n, "No records with the specified details exist. Nothing done.")
	})
}

func newUpdateCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "update <id> <first-name> <last-name> <email> <telephone>",
		Short: "Replace every field of the record with the given id",
		Args:  cobra.ExactArgs(record.FieldCount + 1),
	}, func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		r, err := record.FromFields(args[1:])
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid record", err)
		}
		n, err := s.Store.UpdateRecord(ctx, id, r)
		if err != nil {
			return databaseError(err)
		}
		return renderAffected(out, n, fmt.Sprintf("Record #%d does not exist. Nothing done.", id))
	})
}

type clearResult struct {
	Cleared      bool  `json:"cleared" yaml:"cleared"`
	RowsAffected int64 `json:"rows_affected" yaml:"rows_affected"`
}

func newClearCommand(opts *RootOptions) *cobra.Command {
	return menuCommand(opts, &cobra.Command{
		Use:   "clear yes",
		Short: "Remove every record",
		Long: `Remove every record from the database.

The literal word "yes" must follow the command to confirm.`,
		Args: cobra.MaximumNArgs(1),
	}, func(ctx context.Context, s *Session, out *OutputFormatter, args []string) error {
		if len(args) == 0 || !confirmed(args[0]) {
			return out.Success(clearResult{}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Type %q to confirm removing all data in the database.\n", confirmToken)
				return err
			})
		}

		n, err := s.Store.ClearRecords(ctx)
		if err != nil {
			return databaseError(err)
		}
		s.Logger.Debug("records cleared", "rows", n)
		return out.Success(clearResult{Cleared: true, RowsAffected: n}, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, "All data cleared.")
			return err
		})
	})
}

// confirmed reports whether token is the confirmation word in any case.
func confirmed(token string) bool {
	fold := cases.Fold()
	return fold.String(token) == fold.String(confirmToken)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid record id %q", s))
	}
	return id, nil
}

func renderRecords(out *OutputFormatter, records []record.Record) error {
	return out.Success(records, func(w io.Writer) error {
		return writeRecords(w, out.Format, records)
	})
}

func renderAffected(out *OutputFormatter, n int64, noneNotice string) error {
	return out.Success(affectedResult{RowsAffected: n}, func(w io.Writer) error {
		return writeAffected(w, n, noneNotice)
	})
}
