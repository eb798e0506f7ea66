package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input holds the raw input lines, without terminators.
	Input []string `yaml:"input"`

	// Condition, Fields and Lines are the query, as given on the command line.
	Condition string   `yaml:"condition,omitempty"`
	Fields    []string `yaml:"fields,omitempty"`
	Lines     *int     `yaml:"lines,omitempty"`

	// Expect pins the exact outcome.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Assertions check properties of the output.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectation specifies the exact outcome of a scenario.
type Expectation struct {
	// Records is the full sorted output. Nil skips the check; an empty list
	// expects no output.
	Records []string `yaml:"records"`

	// Stats, if set, must match the run counters exactly.
	Stats *ExpectedStats `yaml:"stats,omitempty"`

	// Error is the expected failure class: "parse" or "decode".
	Error string `yaml:"error,omitempty"`

	// ErrorLine is the input line a decode error must report.
	ErrorLine int `yaml:"error_line,omitempty"`
}

// ExpectedStats mirrors pipeline.Stats.
type ExpectedStats struct {
	Processed    int  `yaml:"processed"`
	Kept         int  `yaml:"kept"`
	Dropped      int  `yaml:"dropped"`
	Unique       int  `yaml:"unique"`
	LimitReached bool `yaml:"limit_reached"`
}

// Assertion validates a property of the output.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Record is an output line (used by contains, excludes).
	Record string `yaml:"record,omitempty"`

	// Records lists output lines in expected relative order (used by order).
	Records []string `yaml:"records,omitempty"`

	// Count is the expected number of records (used by count).
	Count int `yaml:"count,omitempty"`

	// Condition must hold for every output record (used by all_match).
	Condition string `yaml:"condition,omitempty"`
}

// Assertion type constants.
const (
	AssertContains = "contains"
	AssertExcludes = "excludes"
	AssertCount    = "count"
	AssertOrder    = "order"
	AssertAllMatch = "all_match"
)

// Error classes for Expectation.Error.
const (
	ErrorParse  = "parse"
	ErrorDecode = "decode"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, ordered by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("scenario name %q used by %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
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

	if s.Lines != nil && *s.Lines < 0 {
		return fmt.Errorf("lines must be non-negative")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil {
		switch s.Expect.Error {
		case "", ErrorParse:
			if s.Expect.ErrorLine != 0 {
				return fmt.Errorf("expect.error_line requires error: %s", ErrorDecode)
			}
		case ErrorDecode:
			if s.Expect.ErrorLine <= 0 {
				return fmt.Errorf("expect.error_line is required for error: %s", ErrorDecode)
			}
		default:
			return fmt.Errorf("expect.error: unknown error class %q", s.Expect.Error)
		}
		if s.Expect.Error != "" && (s.Expect.Records != nil || s.Expect.Stats != nil) {
			return fmt.Errorf("expect: records and stats cannot be combined with error")
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertExcludes:
		if a.Record == "" {
			return fmt.Errorf("assertions[%d]: record is required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for count", index)
		}
	case AssertOrder:
		if len(a.Records) < 2 {
			return fmt.Errorf("assertions[%d]: at least two records are required for order", index)
		}
	case AssertAllMatch:
		if a.Condition == "" {
			return fmt.Errorf("assertions[%d]: condition is required for all_match", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
