package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/blog.yaml")
	require.NoError(t, err)

	assert.Equal(t, "blog_filters", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "..", "schema"), s.Schema)
	require.Len(t, s.Setup, 2)
	assert.Equal(t, "User", s.Setup[0].Model)
	assert.Len(t, s.Setup[0].Rows, 4)

	first := s.Cases[0]
	assert.Equal(t, "adults", first.Name)
	assert.Equal(t, yaml.MappingNode, first.Where.Kind)
	assert.Equal(t, []any{1, 4}, first.Expect.IDs)
}

func TestLoadScenario_EmptyIDsAreExplicit(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/blog.yaml")
	require.NoError(t, err)

	for _, c := range s.Cases {
		if c.Name == "constant_false" {
			assert.NotNil(t, c.Expect.IDs)
			assert.Empty(t, c.Expect.IDs)
			return
		}
	}
	t.Fatal("constant_false case not found")
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	s, err := LoadScenarioWithBasePath("testdata/scenarios/golden.yaml", "testdata/scenarios")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "schema"), s.Schema)
}

func TestLoadScenario_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScenario("testdata/scenarios/nope.yaml")
		assert.ErrorContains(t, err, "failed to read scenario file")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadScenario("testdata/invalid/typo.yaml")
		assert.ErrorContains(t, err, "failed to parse YAML")
	})

	t.Run("no cases", func(t *testing.T) {
		_, err := LoadScenario("testdata/invalid/missing_cases.yaml")
		assert.ErrorContains(t, err, "cases list is required")
	})
}

func TestValidateScenario(t *testing.T) {
	schemaDir := filepath.Join("testdata", "schema")
	where := yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"}
	valid := func() Scenario {
		return Scenario{
			Name:        "s",
			Description: "d",
			Schema:      schemaDir,
			Cases:       []Case{{Name: "c", Model: "User", Where: where, Expect: Expect{IDs: []any{}}}},
		}
	}

	require.NoError(t, func() error { s := valid(); return validateScenario(&s) }())

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"no name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"no description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no schema", func(s *Scenario) { s.Schema = "" }, "schema is required"},
		{"missing schema", func(s *Scenario) { s.Schema = filepath.Join(t.TempDir(), "gone") }, "schema directory not found"},
		{"setup without model", func(s *Scenario) { s.Setup = []SetupStep{{}} }, "setup[0]: model is required"},
		{"case without name", func(s *Scenario) { s.Cases[0].Name = "" }, "cases[0]: name is required"},
		{"case without model", func(s *Scenario) { s.Cases[0].Model = "" }, "cases[0]: model is required"},
		{"case without where", func(s *Scenario) { s.Cases[0].Where = yaml.Node{} }, "cases[0]: where is required"},
		{"case without expect", func(s *Scenario) { s.Cases[0].Expect = Expect{} }, "expect needs ids, sql or error"},
		{"error with ids", func(s *Scenario) { s.Cases[0].Expect.Error = "boom" }, "expect.error excludes ids and sql"},
		{"duplicate case", func(s *Scenario) { s.Cases = append(s.Cases, s.Cases[0]) }, `duplicate name "c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			assert.ErrorContains(t, validateScenario(&s), tt.wantErr)
		})
	}
}

func TestLoadScenario_AbsoluteSchemaPath(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("testdata", "schema"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "abs.yaml")
	doc := "name: abs\ndescription: absolute schema\nschema: " + abs + "\ncases:\n  - {name: all, model: User, where: true, expect: {ids: []}}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, abs, s.Schema)
}
