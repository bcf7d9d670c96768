package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/raymondSeger/prisma/internal/ir"
)

// Snapshot serializes a scenario result as canonical JSON for golden
// comparison. Only outcomes are recorded; pass/fail is left to EvaluateCase.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	cases := make([]any, len(result.Cases))
	for i, c := range result.Cases {
		m := map[string]any{"name": c.Name}
		if c.Error != "" {
			m["error"] = c.Error
		} else {
			m["sql"] = c.SQL
			m["params"] = nonNil(c.Params)
			m["ids"] = nonNil(c.IDs)
		}
		cases[i] = m
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario_name": scenarioName,
		"cases":         cases,
	})
}

func nonNil(vs []any) []any {
	if vs == nil {
		return []any{}
	}
	return vs
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

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
