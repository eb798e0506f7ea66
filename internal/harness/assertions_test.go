package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRecords = []string{
	`{"level": "error", "n": 1}`,
	`{"level": "error", "n": 2}`,
	`{"level": "warn", "n": 3}`,
}

func TestEvaluateAssertions(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		pass      bool
	}{
		{"contains present", Assertion{Type: AssertContains, Record: sampleRecords[1]}, true},
		{"contains missing", Assertion{Type: AssertContains, Record: `{"n": 9}`}, false},
		{"excludes missing", Assertion{Type: AssertExcludes, Record: `{"n": 9}`}, true},
		{"excludes present", Assertion{Type: AssertExcludes, Record: sampleRecords[0]}, false},
		{"count match", Assertion{Type: AssertCount, Count: 3}, true},
		{"count mismatch", Assertion{Type: AssertCount, Count: 2}, false},
		{"order kept", Assertion{Type: AssertOrder, Records: []string{sampleRecords[0], sampleRecords[2]}}, true},
		{"order reversed", Assertion{Type: AssertOrder, Records: []string{sampleRecords[2], sampleRecords[0]}}, false},
		{"order missing", Assertion{Type: AssertOrder, Records: []string{sampleRecords[0], `{}`}}, false},
		{"all match", Assertion{Type: AssertAllMatch, Condition: "n >= 1"}, true},
		{"not all match", Assertion{Type: AssertAllMatch, Condition: `level == "error"`}, false},
		{"all match bad condition", Assertion{Type: AssertAllMatch, Condition: "=="}, false},
		{"unknown type", Assertion{Type: "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(&Result{Records: sampleRecords}, []Assertion{tt.assertion})
			if tt.pass {
				assert.Empty(t, errs)
			} else {
				assert.Len(t, errs, 1)
			}
		})
	}
}

func TestEvaluateAssertions_Empty(t *testing.T) {
	errs := EvaluateAssertions(&Result{}, []Assertion{
		{Type: AssertCount, Count: 0},
		{Type: AssertExcludes, Record: `{}`},
		{Type: AssertAllMatch, Condition: "a == 1"},
	})
	assert.Empty(t, errs)
}

func TestAssertionError_Message(t *testing.T) {
	err := assertCount(sampleRecords, Assertion{Type: AssertCount, Count: 1})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: count")
	assert.Contains(t, msg, "Expected: 1 records")
	assert.Contains(t, msg, "Actual: 3 records")
	assert.Contains(t, msg, "[3] "+sampleRecords[2])
}
