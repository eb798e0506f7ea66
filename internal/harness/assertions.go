package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/logex/internal/predicate"
	"github.com/roach88/logex/internal/value"
)

// AssertionError is returned when an assertion fails.
// It includes the full output to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Records  []string // Full output for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull output:\n")
	for i, r := range e.Records {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, r)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result.Records, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(records []string, a Assertion) error {
	switch a.Type {
	case AssertContains:
		return assertContains(records, a)
	case AssertExcludes:
		return assertExcludes(records, a)
	case AssertCount:
		return assertCount(records, a)
	case AssertOrder:
		return assertOrder(records, a)
	case AssertAllMatch:
		return assertAllMatch(records, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertContains(records []string, a Assertion) error {
	if slices.Contains(records, a.Record) {
		return nil
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: a.Record,
		Actual:   "not found in output",
		Records:  records,
	}
}

func assertExcludes(records []string, a Assertion) error {
	i := slices.Index(records, a.Record)
	if i < 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertExcludes,
		Expected: fmt.Sprintf("%s absent", a.Record),
		Actual:   fmt.Sprintf("found at position %d", i+1),
		Records:  records,
	}
}

func assertCount(records []string, a Assertion) error {
	if len(records) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d records", a.Count),
		Actual:   fmt.Sprintf("%d records", len(records)),
		Records:  records,
	}
}

// assertOrder checks that the records appear in the given relative order.
// They need not be adjacent.
func assertOrder(records []string, a Assertion) error {
	prev := -1
	for _, want := range a.Records {
		pos := slices.Index(records, want)
		if pos < 0 {
			return &AssertionError{
				Type:     AssertOrder,
				Expected: want,
				Actual:   "not found in output",
				Records:  records,
			}
		}
		if pos < prev {
			return &AssertionError{
				Type:     AssertOrder,
				Expected: fmt.Sprintf("%s after position %d", want, prev+1),
				Actual:   fmt.Sprintf("found at position %d", pos+1),
				Records:  records,
			}
		}
		prev = pos
	}
	return nil
}

func assertAllMatch(records []string, a Assertion) error {
	pred, err := predicate.Compile(a.Condition)
	if err != nil {
		return fmt.Errorf("all_match condition: %w", err)
	}
	for i, line := range records {
		record, err := value.DecodeLine([]byte(line))
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if !pred.Evaluate(record) {
			return &AssertionError{
				Type:     AssertAllMatch,
				Expected: fmt.Sprintf("every record matches %s", a.Condition),
				Actual:   fmt.Sprintf("record %d does not: %s", i+1, line),
				Records:  records,
			}
		}
	}
	return nil
}
