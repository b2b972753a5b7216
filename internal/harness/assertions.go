package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/addressbook/internal/record"
)

// AssertionError is returned when an assertion fails.
// It includes the transcript to help debug the failure.
type AssertionError struct {
	Type       string // Assertion type for categorization
	Expected   string // Human-readable expected outcome
	Actual     string // Human-readable actual outcome
	Transcript string // Full transcript for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nTranscript:\n")
	for _, line := range strings.Split(strings.TrimRight(e.Transcript, "\n"), "\n") {
		fmt.Fprintf(&buf, "  | %s\n", line)
	}

	return buf.String()
}

// evaluateAssertion dispatches a to its checker.
func evaluateAssertion(a Assertion, transcript string, records []record.Record) error {
	switch a.Type {
	case AssertTranscriptOrder:
		return assertTranscriptOrder(transcript, a.Lines)
	case AssertRecordCount:
		return assertRecordCount(transcript, records, *a.Count)
	case AssertRecordExists:
		return assertRecordPresence(transcript, records, *a.Record, true)
	case AssertRecordAbsent:
		return assertRecordPresence(transcript, records, *a.Record, false)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTranscriptContains checks that want occurs somewhere in the transcript.
func assertTranscriptContains(transcript, want string) error {
	if strings.Contains(transcript, want) {
		return nil
	}
	return &AssertionError{
		Type:       "transcript_contains",
		Expected:   fmt.Sprintf("%q in transcript", want),
		Actual:     "not found",
		Transcript: transcript,
	}
}

// assertTranscriptOrder checks that lines occur in order. They need not be
// adjacent.
func assertTranscriptOrder(transcript string, lines []string) error {
	rest := transcript
	for i, line := range lines {
		idx := strings.Index(rest, line)
		if idx < 0 {
			actual := "not found"
			if strings.Contains(transcript, line) {
				actual = "found, but before the previous line"
			}
			return &AssertionError{
				Type:       AssertTranscriptOrder,
				Expected:   fmt.Sprintf("line %d %q after %q", i+1, line, previous(lines, i)),
				Actual:     actual,
				Transcript: transcript,
			}
		}
		rest = rest[idx+len(line):]
	}
	return nil
}

func previous(lines []string, i int) string {
	if i == 0 {
		return "start of transcript"
	}
	return lines[i-1]
}

func assertRecordCount(transcript string, records []record.Record, want int) error {
	if len(records) == want {
		return nil
	}
	return &AssertionError{
		Type:       AssertRecordCount,
		Expected:   fmt.Sprintf("%d records", want),
		Actual:     fmt.Sprintf("%d records", len(records)),
		Transcript: transcript,
	}
}

func assertRecordPresence(transcript string, records []record.Record, fields RecordFields, wantPresent bool) error {
	want := fields.toRecord()
	found := false
	for _, r := range records {
		if r.SameFields(want) {
			found = true
			break
		}
	}
	if found == wantPresent {
		return nil
	}

	typ, expected, actual := AssertRecordExists, "record present", "no matching record"
	if !wantPresent {
		typ, expected, actual = AssertRecordAbsent, "record absent", "matching record found"
	}
	return &AssertionError{
		Type:       typ,
		Expected:   fmt.Sprintf("%s: %s %s <%s> %s", expected, want.FirstName, want.LastName, want.Email, want.Telephone),
		Actual:     actual,
		Transcript: transcript,
	}
}

func (f RecordFields) toRecord() record.Record {
	return record.New(f.FirstName, f.LastName, f.Email, f.Telephone)
}
