package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/roach88/addressbook/internal/record"
)

// recordSeparator follows every record in a text listing.
var recordSeparator = strings.Repeat("-", 30)

type addResult struct {
	ID int64 `json:"id" yaml:"id"`
}

type affectedResult struct {
	RowsAffected int64 `json:"rows_affected" yaml:"rows_affected"`
}

type countResult struct {
	Count int64 `json:"count" yaml:"count"`
}

// writeRecords prints records in the formatter's text style followed by a
// total line.
func writeRecords(w io.Writer, format string, records []record.Record) error {
	if format == "table" {
		writeRecordTable(w, records)
	} else {
		for _, r := range records {
			if err := r.Format(w); err != nil {
				return err
			}
			fmt.Fprintln(w, recordSeparator)
		}
	}
	return writeTotal(w, int64(len(records)))
}

func writeRecordTable(w io.Writer, records []record.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "First name", "Last name", "Email", "Telephone"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.FirstName, r.LastName, r.Email, r.Telephone})
	}
	t.Render()
}

func writeTotal(w io.Writer, n int64) error {
	_, err := fmt.Fprintf(w, "%d records in total.\n", n)
	return err
}

// writeAffected prints an optional notice for zero rows, then the count.
func writeAffected(w io.Writer, n int64, noneNotice string) error {
	if n == 0 && noneNotice != "" {
		fmt.Fprintln(w, noneNotice)
	}
	_, err := fmt.Fprintf(w, "%d rows affected.\n", n)
	return err
}
