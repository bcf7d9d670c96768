package harness

// CaseResult is what one case produced.
type CaseResult struct {
	Name string `json:"name"`

	// SQL and Params are the rendered SELECT, empty when parsing failed.
	SQL    string `json:"sql,omitempty"`
	Params []any  `json:"params,omitempty"`

	// IDs are the primary keys of the matched rows, in order.
	IDs []any `json:"ids,omitempty"`

	// Error is the parse error, if the filter was rejected.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case met its expectation.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCase records a case outcome.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
}
