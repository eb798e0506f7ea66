package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario in testdata/scenarios against its golden
// file. To regenerate golden files:
//
//	go test ./internal/harness -run TestScenarios -update
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestScenarios_Deterministic(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, scenario := range scenarios {
		first, err := Run(scenario)
		require.NoError(t, err)
		second, err := Run(scenario)
		require.NoError(t, err)

		a, err := Snapshot(scenario.Name, first)
		require.NoError(t, err)
		b, err := Snapshot(scenario.Name, second)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), scenario.Name)
		assert.Equal(t, first.RunID, second.RunID, scenario.Name)
	}
}

func TestSnapshot_Error(t *testing.T) {
	data, err := Snapshot("s", &Result{ErrorClass: ErrorDecode, ErrorLine: 4})
	require.NoError(t, err)
	assert.Equal(t, "{\"error\": \"decode\", \"error_line\": 4, \"scenario\": \"s\"}\n", string(data))
}

func TestSnapshot_BadRecord(t *testing.T) {
	_, err := Snapshot("s", &Result{Records: []string{"not json"}})
	assert.Error(t, err)
}
