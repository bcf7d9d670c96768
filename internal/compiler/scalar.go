package compiler

import (
	"github.com/raymondSeger/prisma/internal/filter"
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// CompileScalar translates one scalar filter into a single leaf.
//
// Null handling:
//   - equals null / not equals null become IS NULL / IS NOT NULL
//   - in [null] / not in [null] (exactly one element) likewise
//   - ordering operators and multi-element lists pass null through
//
// Pattern operators hand the display string of the operand to the field's
// pattern builder, which owns wildcard placement.
//
// Panics with a *Fault when the field, operator or operand is missing.
func CompileScalar(sf filter.ScalarFilter) queryir.ConditionTree {
	field := sf.Field
	if field == nil {
		panic(newFault(FaultMissingField, "scalar filter (%s) has no field", sf.Operator))
	}

	var leaf queryir.Leaf
	switch sf.Operator {
	case filter.Equals:
		if ir.IsNull(sf.Value) {
			leaf = field.IsNull()
		} else {
			leaf = field.Equals(ToNativeValue(sf.Value))
		}
	case filter.NotEquals:
		if ir.IsNull(sf.Value) {
			leaf = field.IsNotNull()
		} else {
			leaf = field.NotEquals(ToNativeValue(sf.Value))
		}

	case filter.Contains:
		leaf = field.Like(ToDisplayString(sf.Value))
	case filter.NotContains:
		leaf = field.NotLike(ToDisplayString(sf.Value))
	case filter.StartsWith:
		leaf = field.BeginsWith(ToDisplayString(sf.Value))
	case filter.NotStartsWith:
		leaf = field.NotBeginsWith(ToDisplayString(sf.Value))
	case filter.EndsWith:
		leaf = field.EndsWith(ToDisplayString(sf.Value))
	case filter.NotEndsWith:
		leaf = field.NotEndsWith(ToDisplayString(sf.Value))

	case filter.LessThan:
		leaf = field.LessThan(ToNativeValue(sf.Value))
	case filter.LessThanOrEquals:
		leaf = field.LessThanOrEquals(ToNativeValue(sf.Value))
	case filter.GreaterThan:
		leaf = field.GreaterThan(ToNativeValue(sf.Value))
	case filter.GreaterThanOrEquals:
		leaf = field.GreaterThanOrEquals(ToNativeValue(sf.Value))

	case filter.In:
		if isSingleNull(sf.Values) {
			leaf = field.IsNull()
		} else {
			leaf = field.InSelection(toNativeValues(sf.Values))
		}
	case filter.NotIn:
		if isSingleNull(sf.Values) {
			leaf = field.IsNotNull()
		} else {
			leaf = field.NotInSelection(toNativeValues(sf.Values))
		}

	case filter.OperatorUnspecified:
		panic(newFault(FaultMissingOperator, "scalar filter has no operator"))
	default:
		panic(newFault(FaultUnknownOperator, "unsupported operator %d", int(sf.Operator)))
	}

	return queryir.NewSingle(leaf)
}

// isSingleNull reports a list holding exactly one null.
func isSingleNull(vs []ir.ScalarValue) bool {
	return len(vs) == 1 && ir.IsNull(vs[0])
}
