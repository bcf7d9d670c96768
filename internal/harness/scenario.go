package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a filter conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the directory of CUE model files.
	// Relative paths are resolved against the scenario file's directory.
	Schema string `yaml:"schema"`

	// Setup lists rows to insert before any case runs.
	Setup []SetupStep `yaml:"setup,omitempty"`

	// Cases are run in order against the seeded database.
	Cases []Case `yaml:"cases"`
}

// SetupStep inserts rows into one model's table.
type SetupStep struct {
	Model string           `yaml:"model"`
	Rows  []map[string]any `yaml:"rows"`
}

// Case is one filter document and what it must produce.
type Case struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`

	// Where is kept as a node so operator order survives re-encoding.
	Where yaml.Node `yaml:"where"`

	// OrderBy entries are field[:asc|desc]. Defaults to the primary key.
	OrderBy []string `yaml:"order_by,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect specifies the expected outcome of a case.
// At least one of IDs, SQL or Error must be set.
type Expect struct {
	// IDs are the primary keys of the matched rows, in order.
	// An explicit empty list expects no rows.
	IDs []any `yaml:"ids,omitempty"`

	// SQL is compared verbatim with the rendered SELECT.
	SQL string `yaml:"sql,omitempty"`

	// Error is a substring the parse error must contain.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file, resolving the schema
// path against the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative schema path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "case:" vs "cases:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) && basePath != "" {
		scenario.Schema = filepath.Join(basePath, scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema directory not found: %s", s.Schema)
	}

	for i, step := range s.Setup {
		if step.Model == "" {
			return fmt.Errorf("setup[%d]: model is required", i)
		}
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if err := validateCase(i, &c); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
	}

	return nil
}

// validateCase validates a single case.
func validateCase(index int, c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}
	if c.Model == "" {
		return fmt.Errorf("cases[%d]: model is required", index)
	}
	if c.Where.Kind == 0 {
		return fmt.Errorf("cases[%d]: where is required", index)
	}
	if c.Expect.IDs == nil && c.Expect.SQL == "" && c.Expect.Error == "" {
		return fmt.Errorf("cases[%d]: expect needs ids, sql or error", index)
	}
	if c.Expect.Error != "" && (c.Expect.IDs != nil || c.Expect.SQL != "") {
		return fmt.Errorf("cases[%d]: expect.error excludes ids and sql", index)
	}
	return nil
}
