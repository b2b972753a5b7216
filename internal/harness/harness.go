package harness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/addressbook/internal/cli"
	"github.com/roach88/addressbook/internal/config"
	"github.com/roach88/addressbook/internal/store"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database with the scenario's driver
// 2. Feed the commands through a scripted shell with echo on
// 3. Read back the final table contents
// 4. Check expected substrings and assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	driver := scenario.Driver
	if driver == "" {
		driver = store.DefaultDriver
	}
	format := scenario.Format
	if format == "" {
		format = "text"
	}

	logger := slog.New(slog.DiscardHandler)

	st, err := store.Open(":memory:", store.WithDriver(driver), store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	cfg := &config.Config{
		Database: ":memory:",
		Format:   format,
		Driver:   driver,
	}

	var transcript bytes.Buffer
	sh := cli.NewShell(cli.NewSession(st, cfg, logger), &cli.RootOptions{Format: format}, &transcript, &transcript)
	sh.Echo = true

	script := strings.Join(scenario.Commands, "\n") + "\n"
	if err := sh.RunScript(ctx, strings.NewReader(script)); err != nil {
		return nil, fmt.Errorf("failed to run commands: %w", err)
	}

	result := NewResult()
	result.Transcript = transcript.String()

	records, err := st.GetAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final state: %w", err)
	}
	result.Records = records

	for _, want := range scenario.Expect {
		if err := assertTranscriptContains(result.Transcript, want); err != nil {
			result.AddError(err.Error())
		}
	}
	for _, a := range scenario.Assertions {
		if err := evaluateAssertion(a, result.Transcript, records); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}
