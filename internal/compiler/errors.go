package compiler

import (
	"fmt"
)

// FaultCode categorizes fatal compilation faults.
type FaultCode string

const (
	// FaultMissingOperator indicates a scalar filter without an operator.
	FaultMissingOperator FaultCode = "MISSING_OPERATOR"

	// FaultUnknownOperator indicates an operator outside the known set.
	FaultUnknownOperator FaultCode = "UNKNOWN_OPERATOR"

	// FaultMissingField indicates a scalar filter without a field.
	FaultMissingField FaultCode = "MISSING_FIELD"

	// FaultMissingValue indicates a scalar value with no active variant.
	FaultMissingValue FaultCode = "MISSING_VALUE"

	// FaultUnknownValue indicates a scalar value type outside the known set.
	FaultUnknownValue FaultCode = "UNKNOWN_VALUE"

	// FaultUnknownFilter indicates a filter variant outside the known set.
	FaultUnknownFilter FaultCode = "UNKNOWN_FILTER"

	// FaultUnknownSortOrder indicates a sort order outside Ascending/Descending.
	FaultUnknownSortOrder FaultCode = "UNKNOWN_SORT_ORDER"

	// FaultMissingRelationCompiler indicates a relation filter reached a
	// Compiler built without a RelationCompiler.
	FaultMissingRelationCompiler FaultCode = "MISSING_RELATION_COMPILER"

	// FaultUnknownRelation indicates a relation filter naming a relation or
	// related model the schema does not define.
	FaultUnknownRelation FaultCode = "UNKNOWN_RELATION"
)

// Fault is a violated precondition: input that upstream validation should
// have rejected. Faults are raised with panic, never returned, and callers
// must not recover and continue. A Fault means the producer of the filter
// and this compiler disagree about the protocol or schema.
type Fault struct {
	Code    FaultCode
	Message string
}

// Error implements the error interface so a Fault prints cleanly when it
// crashes the process.
func (f *Fault) Error() string {
	return fmt.Sprintf("fatal %s: %s", f.Code, f.Message)
}

func newFault(code FaultCode, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsFault reports whether a recovered panic value is a compilation Fault.
// Intended for tests and crash reporting, not for resuming work.
func AsFault(recovered any) (*Fault, bool) {
	f, ok := recovered.(*Fault)
	return f, ok
}
