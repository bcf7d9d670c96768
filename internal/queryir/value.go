package queryir

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Value is an operator-ready native value, the form leaf predicates
// compare against.
//
// Sealed: Text, Real, Boolean, DateTime, JSON, Integer, UUIDValue and
// NullValue are the only implementations.
type Value interface {
	nativeValue()
	String() string
}

// Text is a string value.
type Text string

func (Text) nativeValue() {}

// Real is a 64-bit float value.
type Real float64

func (Real) nativeValue() {}

// Boolean is a boolean value.
type Boolean bool

func (Boolean) nativeValue() {}

// DateTime is a timestamp value.
type DateTime time.Time

func (DateTime) nativeValue() {}

// JSON is a JSON literal.
type JSON string

func (JSON) nativeValue() {}

// Integer is a 64-bit integer value.
type Integer int64

func (Integer) nativeValue() {}

// UUIDValue is a uuid value.
type UUIDValue uuid.UUID

func (UUIDValue) nativeValue() {}

// NullValue is the explicit null marker.
type NullValue struct{}

func (NullValue) nativeValue() {}

func (v Text) String() string    { return strconv.Quote(string(v)) }
func (v Real) String() string    { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Boolean) String() string { return strconv.FormatBool(bool(v)) }
func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }
func (v JSON) String() string    { return string(v) }
func (NullValue) String() string { return "NULL" }

func (v DateTime) String() string {
	return time.Time(v).UTC().Format(time.RFC3339Nano)
}

func (v UUIDValue) String() string {
	return uuid.UUID(v).String()
}

// Native converts v into the plain Go value used for JSON descriptions:
// string, float64, bool, int64, json.RawMessage or nil.
func Native(v Value) any {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Real:
		return float64(val)
	case Boolean:
		return bool(val)
	case Integer:
		return int64(val)
	case DateTime:
		return val.String()
	case JSON:
		if json.Valid([]byte(val)) {
			return json.RawMessage(val)
		}
		return string(val)
	case UUIDValue:
		return val.String()
	default:
		return nil
	}
}
