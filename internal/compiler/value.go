package compiler

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// Fractional seconds display in millisecond, microsecond or nanosecond
// precision, whichever is the shortest exact one.
const (
	displayTimeLayout = "2006-01-02 15:04:05"
	displayMillis     = displayTimeLayout + ".000"
	displayMicros     = displayTimeLayout + ".000000"
	displayNanos      = displayTimeLayout + ".000000000"
)

// formatDisplayTime renders t in UTC as "2006-01-02 15:04:05[.fff] UTC".
func formatDisplayTime(t time.Time) string {
	t = t.UTC()
	layout := displayNanos
	switch ns := t.Nanosecond(); {
	case ns == 0:
		layout = displayTimeLayout
	case ns%int(time.Millisecond) == 0:
		layout = displayMillis
	case ns%int(time.Microsecond) == 0:
		layout = displayMicros
	}
	return t.Format(layout) + " UTC"
}

// ToDisplayString returns the textual form of v used by pattern operators.
// Identifier references are unwrapped first. Null displays as "null".
//
// Panics with a *Fault if v has no active variant.
func ToDisplayString(v ir.ScalarValue) string {
	switch val := v.(type) {
	case ir.String:
		return string(val)
	case ir.Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case ir.Boolean:
		return strconv.FormatBool(bool(val))
	case ir.DateTime:
		return formatDisplayTime(time.Time(val))
	case ir.Enum:
		return string(val)
	case ir.JSON:
		return string(val)
	case ir.Int:
		return strconv.FormatInt(int64(val), 10)
	case ir.UUID:
		return uuid.UUID(val).String()
	case ir.Null:
		return "null"
	case ir.ID:
		return ToDisplayString(unwrapID(val))
	case nil:
		panic(newFault(FaultMissingValue, "scalar value has no active variant"))
	default:
		panic(newFault(FaultUnknownValue, "unsupported scalar value %T", v))
	}
}

// ToNativeValue returns the operator-ready form of v used by equality,
// ordering and list operators. Null maps to queryir.NullValue.
//
// Panics with a *Fault if v has no active variant.
func ToNativeValue(v ir.ScalarValue) queryir.Value {
	switch val := v.(type) {
	case ir.String:
		return queryir.Text(val)
	case ir.Float:
		return queryir.Real(val)
	case ir.Boolean:
		return queryir.Boolean(val)
	case ir.DateTime:
		return queryir.DateTime(val)
	case ir.Enum:
		return queryir.Text(val)
	case ir.JSON:
		return queryir.JSON(val)
	case ir.Int:
		return queryir.Integer(val)
	case ir.UUID:
		return queryir.UUIDValue(val)
	case ir.Null:
		return queryir.NullValue{}
	case ir.ID:
		return ToNativeValue(unwrapID(val))
	case nil:
		panic(newFault(FaultMissingValue, "scalar value has no active variant"))
	default:
		panic(newFault(FaultUnknownValue, "unsupported scalar value %T", v))
	}
}

// toNativeValues converts a list, keeping order and duplicates.
func toNativeValues(vs []ir.ScalarValue) []queryir.Value {
	out := make([]queryir.Value, len(vs))
	for i, v := range vs {
		out[i] = ToNativeValue(v)
	}
	return out
}

// unwrapID removes one level of identifier wrapping.
func unwrapID(id ir.ID) ir.ScalarValue {
	switch val := id.Value.(type) {
	case ir.IDString:
		return ir.String(val)
	case ir.IDInt:
		return ir.Int(val)
	case nil:
		panic(newFault(FaultMissingValue, "identifier reference has no value"))
	default:
		panic(newFault(FaultUnknownValue, "unsupported identifier value %T", id.Value))
	}
}
