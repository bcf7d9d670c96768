package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/golden.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestSnapshot(t *testing.T) {
	result := NewResult()
	result.AddCase(CaseResult{Name: "none", SQL: "SELECT 1"})
	result.AddCase(CaseResult{Name: "bad", Error: "boom"})

	data, err := Snapshot("snap", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"cases":[{"ids":[],"name":"none","params":[],"sql":"SELECT 1"},{"error":"boom","name":"bad"}],"scenario_name":"snap"}`,
		string(data))
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("first")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"first"}, r.Errors)
}
