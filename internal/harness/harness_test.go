package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRun_Passes(t *testing.T) {
	scenario := &Scenario{
		Name:        "passing",
		Description: "d",
		Input:       []string{`{"a":1}`, `{"a":2}`, `{"a":1}`},
		Fields:      []string{"a"},
		Expect: &Expectation{
			Records: []string{`{"a": 1}`, `{"a": 2}`},
			Stats:   &ExpectedStats{Processed: 3, Kept: 3, Unique: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "passing-0001", result.RunID)
	assert.Empty(t, result.Errors)
}

func TestRun_RecordMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "d",
		Input:       []string{`{"a":1}`},
		Expect:      &Expectation{Records: []string{`{"a": 2}`}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "records")
}

func TestRun_StatsMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "stats",
		Description: "d",
		Input:       []string{`{"a":1}`, `{"a":2}`},
		Lines:       intPtr(1),
		Expect:      &Expectation{Stats: &ExpectedStats{Processed: 2, Kept: 2, Unique: 2}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "stats")
	assert.True(t, result.Stats.LimitReached)
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected",
		Description: "d",
		Input:       []string{`nope`},
		Assertions:  []Assertion{{Type: AssertCount, Count: 0}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, ErrorDecode, result.ErrorClass)
	assert.Equal(t, 1, result.ErrorLine)
	assert.Contains(t, result.Errors[0], "unexpected decode error")
}

func TestRun_WrongErrorClassFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_class",
		Description: "d",
		Input:       []string{`{"a":1}`},
		Condition:   "a ==",
		Expect:      &Expectation{Error: ErrorDecode, ErrorLine: 1},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, ErrorParse, result.ErrorClass)
}

func TestRun_BadFieldIsParseError(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_field",
		Description: "d",
		Input:       []string{`{"a":1}`},
		Fields:      []string{"jsonpath:$[?("},
		Expect:      &Expectation{Error: ErrorParse},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_EmptyInput(t *testing.T) {
	scenario := &Scenario{
		Name:        "empty",
		Description: "d",
		Expect:      &Expectation{Records: []string{}, Stats: &ExpectedStats{}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Records)
}
