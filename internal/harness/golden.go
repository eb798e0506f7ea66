package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/logex/internal/value"
)

// Snapshot renders the outcome of a scenario as one canonical JSON line.
// Records are embedded as objects, not strings, so golden files stay readable.
func Snapshot(name string, result *Result) ([]byte, error) {
	members := []value.Member{value.M("scenario", value.String(name))}

	if result.ErrorClass != "" {
		members = append(members, value.M("error", value.String(result.ErrorClass)))
		if result.ErrorLine > 0 {
			members = append(members, value.M("error_line", value.Int(int64(result.ErrorLine))))
		}
	} else {
		records := make(value.Array, 0, len(result.Records))
		for i, line := range result.Records {
			obj, err := value.DecodeLine([]byte(line))
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
			records = append(records, obj)
		}
		s := result.Stats
		members = append(members,
			value.M("records", records),
			value.M("stats", value.NewObject(
				value.M("processed", value.Int(int64(s.Processed))),
				value.M("kept", value.Int(int64(s.Kept))),
				value.M("dropped", value.Int(int64(s.Dropped))),
				value.M("unique", value.Int(int64(s.Unique))),
				value.M("limit_reached", value.Bool(s.LimitReached)),
			)),
		)
	}

	data, err := value.MarshalCanonical(value.NewObject(members...))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)

	return nil
}
