package filter

import (
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// Filter is a client-supplied query filter.
//
// This is a sealed interface. Variants:
//   - And, Or: combine sub-filters
//   - Not: negate the implicit conjunction of sub-filters
//   - ScalarFilter: one field/operator/operand triple
//   - Relation: constrain rows by related records
//   - Bool: constant true or false
//
// Order of sub-filters only affects the shape of the compiled tree, never
// its truth value.
type Filter interface {
	filterNode() // Marker method - seals interface to this package
}

// And holds sub-filters that must all match.
type And struct {
	Filters []Filter
}

func (And) filterNode() {}

// Or holds sub-filters of which one must match.
type Or struct {
	Filters []Filter
}

func (Or) filterNode() {}

// Not holds sub-filters whose conjunction must not match.
type Not struct {
	Filters []Filter
}

func (Not) filterNode() {}

// Bool is a constant filter.
type Bool bool

func (Bool) filterNode() {}

// Operator is the comparison applied by a ScalarFilter.
type Operator int

const (
	// OperatorUnspecified is the zero value: no operator was set.
	OperatorUnspecified Operator = iota
	Equals
	NotEquals
	Contains
	NotContains
	StartsWith
	NotStartsWith
	EndsWith
	NotEndsWith
	LessThan
	LessThanOrEquals
	GreaterThan
	GreaterThanOrEquals
	In
	NotIn
)

var operatorNames = [...]string{
	OperatorUnspecified: "unspecified",
	Equals:              "equals",
	NotEquals:           "not",
	Contains:            "contains",
	NotContains:         "not_contains",
	StartsWith:          "starts_with",
	NotStartsWith:       "not_starts_with",
	EndsWith:            "ends_with",
	NotEndsWith:         "not_ends_with",
	LessThan:            "lt",
	LessThanOrEquals:    "lte",
	GreaterThan:         "gt",
	GreaterThanOrEquals: "gte",
	In:                  "in",
	NotIn:               "not_in",
}

// String returns the document keyword for the operator.
func (op Operator) String() string {
	if op >= 0 && int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return "unknown"
}

// IsList reports whether the operator takes a list operand.
func (op Operator) IsList() bool {
	return op == In || op == NotIn
}

// ParseOperator maps a document keyword to an Operator.
func ParseOperator(s string) (Operator, bool) {
	for i, name := range operatorNames {
		if Operator(i) != OperatorUnspecified && name == s {
			return Operator(i), true
		}
	}
	return OperatorUnspecified, false
}

// ScalarFilter compares one field against an operand.
//
// Value is the operand for single-value operators; Values is the ordered
// operand list for In and NotIn.
type ScalarFilter struct {
	Field    queryir.FieldRef
	Operator Operator
	Value    ir.ScalarValue
	Values   []ir.ScalarValue
}

func (ScalarFilter) filterNode() {}

// RelationCondition selects how related records must match.
type RelationCondition int

const (
	// EveryRelated: all related records match (vacuously true for none).
	EveryRelated RelationCondition = iota
	// SomeRelated: at least one related record matches.
	SomeRelated
	// NoRelated: no related record matches.
	NoRelated
	// ToOneRelated: the single related record exists and matches.
	ToOneRelated
)

// String returns the document keyword for the condition.
func (c RelationCondition) String() string {
	switch c {
	case EveryRelated:
		return "every"
	case SomeRelated:
		return "some"
	case NoRelated:
		return "none"
	case ToOneRelated:
		return "is"
	default:
		return "unknown"
	}
}

// Relation filters rows by records reachable through a relation field of
// the model being filtered. Nested is evaluated against the related model.
type Relation struct {
	Field     string
	Condition RelationCondition
	Nested    Filter
}

func (Relation) filterNode() {}
