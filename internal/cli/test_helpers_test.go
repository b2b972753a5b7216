package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/addressbook/internal/config"
	"github.com/roach88/addressbook/internal/store"
)

// isolate moves into a temp dir and clears ADDRESSBOOK_* variables so that
// no config.json, .env or environment of the developer leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"DATABASE", "FORMAT", "DRIVER", "HISTORY_FILE", "LOG_LEVEL"} {
		name := config.EnvPrefix + key
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// testShell is a shell over a fresh file-backed store.
type testShell struct {
	*Shell
	store *store.Store
	out   *bytes.Buffer
}

func newTestShell(t *testing.T, format string) *testShell {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{Database: path, Format: format, Driver: store.DefaultDriver}
	out := &bytes.Buffer{}
	sh := NewShell(NewSession(st, cfg, nil), &RootOptions{Format: format}, out, out)
	return &testShell{Shell: sh, store: st, out: out}
}

// run executes one line and returns what it printed.
func (ts *testShell) run(t *testing.T, line string) string {
	t.Helper()
	ts.out.Reset()
	quit := ts.Exec(t.Context(), line)
	require.False(t, quit, "line %q ended the session", line)
	return ts.out.String()
}

// executeRoot runs the root command with args and stdin, returning combined
// output and the error.
func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return buf.String(), err
}
