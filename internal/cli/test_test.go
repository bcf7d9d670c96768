package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: adults
description: Adults by age
schema: ../schema
setup:
  - model: User
    rows:
      - {id: 1, name: alice, age: 30}
      - {id: 2, name: bob, age: 17}
cases:
  - name: adults
    model: User
    where: {age: {gte: 18}}
    expect:
      ids: [1]
`

const failingScenario = `name: wrong
description: Expects the wrong rows
schema: ../schema
setup:
  - model: User
    rows:
      - {id: 1, name: alice, age: 30}
cases:
  - name: minors
    model: User
    where: {age: {lt: 18}}
    expect:
      ids: [1]
`

// writeScenarios lays out schema/ and scenarios/ side by side and returns
// the scenarios directory.
func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "schema"), 0o755))
	writeFile(t, filepath.Join(root, "schema"), "blog.cue", blogSchema)

	dir := filepath.Join(root, "scenarios")
	require.NoError(t, os.Mkdir(dir, 0o755))
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	return dir
}

func TestTestCommand_Pass(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults.yaml": passingScenario})

	out, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adults (1 case(s))")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_Fail(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"adults.yaml": passingScenario,
		"wrong.yaml":  failingScenario,
	})

	out, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "Assertion failed: minors (ids)")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"adults.yaml": passingScenario,
		"wrong.yaml":  failingScenario,
	})

	out, err := execute(t, "", "test", "--filter", "adu*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_Golden(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults.yaml": passingScenario})

	out, err := execute(t, "", "test", "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adults (golden updated)")

	golden := filepath.Join(dir, "golden", "adults.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"adults"`)

	_, err = execute(t, "", "test", dir)
	require.NoError(t, err, "golden directory is not scanned for scenarios")

	require.NoError(t, os.WriteFile(golden, []byte(`{}`), 0o644))
	out, err = execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "Golden file mismatch")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"wrong.yaml": failingScenario})

	out, err := execute(t, "", "--format", "json", "test", dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommand_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := execute(t, "", "test", filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("no scenarios", func(t *testing.T) {
		out, err := execute(t, "", "test", t.TempDir())
		require.NoError(t, err)
		assert.Contains(t, out, "No scenarios found.")
	})

	t.Run("invalid scenario", func(t *testing.T) {
		dir := writeScenarios(t, map[string]string{"bad.yaml": "name: bad\n"})
		out, err := execute(t, "", "test", dir)
		require.Error(t, err)
		assert.Contains(t, out, "✗ bad.yaml")
		assert.Contains(t, out, "failed to load scenario")
	})
}
