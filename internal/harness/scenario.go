package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/addressbook/internal/cli"
	"github.com/roach88/addressbook/internal/store"
)

// Scenario is a scripted shell session plus what must hold afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Format is the output format of the session. Defaults to "text".
	Format string `yaml:"format,omitempty"`

	// Driver selects the SQLite driver. Defaults to store.DefaultDriver.
	Driver string `yaml:"driver,omitempty"`

	// Commands are fed to the shell one per line.
	Commands []string `yaml:"commands"`

	// Expect lists substrings the transcript must contain.
	Expect []string `yaml:"expect,omitempty"`

	// Assertions validate the transcript and the final table contents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RecordFields is the YAML form of a record's text fields.
type RecordFields struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Telephone string `yaml:"telephone"`
}

// Assertion validates the transcript or the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "transcript_order": Check substrings appear in order
	// - "record_count": Check the table holds exactly Count rows
	// - "record_exists": Check a row with Record's fields exists
	// - "record_absent": Check no row has Record's fields
	Type string `yaml:"type"`

	// Lines are the expected substrings, in order (used by transcript_order).
	Lines []string `yaml:"lines,omitempty"`

	// Count is the expected number of rows (used by record_count).
	Count *int `yaml:"count,omitempty"`

	// Record is the row to look for (used by record_exists, record_absent).
	Record *RecordFields `yaml:"record,omitempty"`
}

// Assertion type constants.
const (
	AssertTranscriptOrder = "transcript_order"
	AssertRecordCount     = "record_count"
	AssertRecordExists    = "record_exists"
	AssertRecordAbsent    = "record_absent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "command:" vs "commands:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Commands) == 0 {
		return fmt.Errorf("commands list is required and must be non-empty")
	}

	if s.Format != "" && !slices.Contains(cli.ValidFormats, s.Format) {
		return fmt.Errorf("format %q: must be one of %v", s.Format, cli.ValidFormats)
	}

	if s.Driver != "" && s.Driver != store.DriverCGO && s.Driver != store.DriverPure {
		return fmt.Errorf("driver %q: must be %s or %s", s.Driver, store.DriverCGO, store.DriverPure)
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion checks that an assertion has required fields for its type.
func validateAssertion(a Assertion, index int) error {
	switch a.Type {
	case AssertTranscriptOrder:
		if len(a.Lines) == 0 {
			return fmt.Errorf("assertions[%d]: lines list is required for transcript_order", index)
		}
	case AssertRecordCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for record_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for record_count", index)
		}
	case AssertRecordExists, AssertRecordAbsent:
		if a.Record == nil {
			return fmt.Errorf("assertions[%d]: record is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
