package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_BlogScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/blog.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %s", strings.Join(result.Errors, "\n"))
	assert.Empty(t, result.Errors)
	require.Len(t, result.Cases, len(s.Cases))

	for _, c := range result.Cases {
		switch c.Name {
		case "unknown_field", "unknown_operator":
			assert.NotEmpty(t, c.Error, c.Name)
			assert.Empty(t, c.SQL, c.Name)
		default:
			assert.Empty(t, c.Error, c.Name)
			assert.True(t, strings.HasPrefix(c.SQL, "SELECT "), c.Name)
		}
	}
}

func TestRun_ReportsFailingCases(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/blog.yaml")
	require.NoError(t, err)

	s.Cases = s.Cases[:1]
	s.Cases[0].Expect.IDs = []any{1}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: adults (ids)")
	assert.Contains(t, result.Errors[0], "Expected: [1]")
	assert.Contains(t, result.Errors[0], "Actual: [1,4]")
}

func TestRun_SetupErrors(t *testing.T) {
	schemaDir := filepath.Join("testdata", "schema")
	base := func() *Scenario {
		s, err := LoadScenario("testdata/scenarios/golden.yaml")
		require.NoError(t, err)
		return s
	}

	t.Run("missing schema", func(t *testing.T) {
		s := base()
		s.Schema = filepath.Join(t.TempDir(), "none")
		_, err := Run(s)
		assert.ErrorContains(t, err, "failed to load schema")
	})

	t.Run("unknown setup model", func(t *testing.T) {
		s := base()
		s.Schema = schemaDir
		s.Setup = []SetupStep{{Model: "Comment", Rows: []map[string]any{{"id": 1}}}}
		_, err := Run(s)
		assert.ErrorContains(t, err, `setup[0]: unknown model "Comment"`)
	})

	t.Run("bad row", func(t *testing.T) {
		s := base()
		s.Setup = []SetupStep{{Model: "User", Rows: []map[string]any{{"id": 1, "nickname": "al"}}}}
		_, err := Run(s)
		assert.ErrorContains(t, err, "setup[0].rows[0]")
	})

	t.Run("unknown case model", func(t *testing.T) {
		s := base()
		s.Cases[0].Model = "Comment"
		_, err := Run(s)
		assert.ErrorContains(t, err, `case "adults"`)
	})

	t.Run("bad order by", func(t *testing.T) {
		s := base()
		s.Cases[0].OrderBy = []string{"nickname"}
		_, err := Run(s)
		assert.ErrorContains(t, err, `unknown field "nickname"`)
	})
}
