package harness

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/raymondSeger/prisma/internal/ir"
)

// AssertionError is returned when a case misses its expectation.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Case     string // Case name
	Kind     string // "ids", "sql" or "error"
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	SQL      string // Rendered SQL for context, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Case, e.Kind)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.SQL != "" {
		fmt.Fprintf(&buf, "  SQL: %s\n", e.SQL)
	}

	return buf.String()
}

// EvaluateCase compares a case outcome with its expectation and returns
// the first mismatch, or nil.
func EvaluateCase(c Case, got CaseResult) *AssertionError {
	fail := func(kind, expected, actual string) *AssertionError {
		return &AssertionError{Case: c.Name, Kind: kind, Expected: expected, Actual: actual, SQL: got.SQL}
	}

	if c.Expect.Error != "" {
		if got.Error == "" {
			return fail("error", fmt.Sprintf("error containing %q", c.Expect.Error), "filter accepted")
		}
		if !strings.Contains(got.Error, c.Expect.Error) {
			return fail("error", fmt.Sprintf("error containing %q", c.Expect.Error), got.Error)
		}
		return nil
	}
	if got.Error != "" {
		return fail("error", "filter accepted", got.Error)
	}

	if c.Expect.SQL != "" && c.Expect.SQL != got.SQL {
		return fail("sql", c.Expect.SQL, got.SQL)
	}

	if c.Expect.IDs != nil {
		want, err := ir.MarshalCanonical(c.Expect.IDs)
		if err != nil {
			return fail("ids", fmt.Sprintf("%v", c.Expect.IDs), fmt.Sprintf("unencodable expectation: %v", err))
		}
		have, err := ir.MarshalCanonical(got.IDs)
		if err != nil {
			return fail("ids", string(want), fmt.Sprintf("unencodable ids: %v", err))
		}
		// Canonical JSON erases the int / int64 split between YAML and SQLite.
		if !bytes.Equal(want, have) {
			return fail("ids", string(want), string(have))
		}
	}

	return nil
}
