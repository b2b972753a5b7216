package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Prompt is shown before each interactive command.
const Prompt = "addressbook> "

// Shell reads menu commands line by line and runs them against one session.
type Shell struct {
	opts   *RootOptions
	out    io.Writer
	err    io.Writer
	styles *Styles

	// Echo prints each scripted line after the prompt, so a transcript
	// reads like an interactive session.
	Echo bool
}

// NewShell creates a shell over s. Output and errors go to out.
func NewShell(s *Session, opts *RootOptions, out, errOut io.Writer) *Shell {
	shellOpts := *opts
	shellOpts.session = s
	return &Shell{opts: &shellOpts, out: out, err: errOut}
}

// Run reads from in until exit, quit or end of input. A terminal gets the
// readline prompt; anything else is read as a script.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	if isTerminal(in) {
		return sh.RunInteractive(ctx)
	}
	return sh.RunScript(ctx, in)
}

// RunScript executes one command per line of in.
func (sh *Shell) RunScript(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if sh.Echo {
			fmt.Fprintf(sh.out, "%s%s\n", Prompt, line)
		}
		if sh.Exec(ctx, line) {
			return nil
		}
	}
	return scanner.Err()
}

// RunInteractive runs the readline prompt on the process terminal.
func (sh *Shell) RunInteractive(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            Prompt,
		HistoryFile:       sh.opts.session.Config.HistoryFile,
		AutoComplete:      newMenuCompleter(sh.opts),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	sh.out, sh.err = rl.Stdout(), rl.Stderr()
	sh.styles = NewStyles()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if sh.Exec(ctx, line) {
			return nil
		}
	}
}

// Exec runs one line. It reports whether the line ended the session.
// Command failures are printed and do not end the session.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}

	words, err := shellwords.Parse(line)
	if err != nil {
		sh.report(err)
		return false
	}
	if len(words) == 0 {
		return false
	}

	switch words[0] {
	case "exit", "quit":
		return true
	}

	sh.opts.session.Logger.Debug("command", "line", line)

	menu := newMenuCommand(sh.opts)
	words = dropSeparator(menu, words)
	menu.SetArgs(words)
	menu.SetIn(strings.NewReader(""))
	menu.SetOut(sh.out)
	menu.SetErr(sh.err)
	if err := menu.ExecuteContext(ctx); err != nil {
		sh.report(err)
	}
	return false
}

func (sh *Shell) report(err error) {
	out := &OutputFormatter{
		Format:    sh.opts.session.Config.Format,
		Writer:    sh.out,
		ErrWriter: sh.err,
		Verbose:   sh.opts.Verbose,
		Styles:    sh.styles,
	}
	_ = out.Error(errorCode(err), err.Error(), nil)
}

// dropSeparator removes a "--" right after a command that does not parse
// flags, so lines written for one-shot use run unchanged in the shell.
func dropSeparator(menu *cobra.Command, words []string) []string {
	if len(words) < 2 || words[1] != "--" {
		return words
	}
	c, _, err := menu.Find(words[:1])
	if err != nil || c == menu || !c.DisableFlagParsing {
		return words
	}
	return append(words[:1:1], words[2:]...)
}

// newMenuCompleter completes menu command names and the shell keywords.
func newMenuCompleter(opts *RootOptions) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, c := range newMenuCommand(opts).Commands() {
		items = append(items, readline.PcItem(c.Name()))
	}
	items = append(items,
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
	return readline.NewPrefixCompleter(items...)
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
