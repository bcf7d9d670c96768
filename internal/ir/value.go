package ir

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScalarValue is a sealed interface over the operand types a scalar filter
// can carry. Exactly one variant is active; a nil ScalarValue means the
// producer never set one.
type ScalarValue interface {
	scalarValue() // Sealed - only the types below implement it
}

// String is a text operand.
type String string

func (String) scalarValue() {}

// Float is a floating point operand. Always float64.
type Float float64

func (Float) scalarValue() {}

// Boolean is a boolean operand.
type Boolean bool

func (Boolean) scalarValue() {}

// DateTime is a timestamp operand.
type DateTime time.Time

func (DateTime) scalarValue() {}

// Enum is an enum symbol. Compared as its name.
type Enum string

func (Enum) scalarValue() {}

// JSON holds raw JSON text, compared as a JSON literal.
type JSON string

func (JSON) scalarValue() {}

// Int is an integer operand. Always int64.
type Int int64

func (Int) scalarValue() {}

// UUID is a uuid operand.
type UUID uuid.UUID

func (UUID) scalarValue() {}

// Null is the explicit null operand.
type Null struct{}

func (Null) scalarValue() {}

// ID is an identifier reference. Its Value is either an IDString or an
// IDInt and must be unwrapped before the operand is used. A nil Value is
// an unset identifier.
type ID struct {
	Value IDValue
}

func (ID) scalarValue() {}

// IDValue is the payload of an identifier reference.
type IDValue interface {
	idValue() // Sealed
}

// IDString is a string identifier (cuid, slug, ...).
type IDString string

func (IDString) idValue() {}

// IDInt is an integer identifier.
type IDInt int64

func (IDInt) idValue() {}

// NewID wraps a string identifier.
func NewID(s string) ID {
	return ID{Value: IDString(s)}
}

// NewIntID wraps an integer identifier.
func NewIntID(n int64) ID {
	return ID{Value: IDInt(n)}
}

// NewDateTime creates a DateTime value.
func NewDateTime(t time.Time) DateTime {
	return DateTime(t)
}

// NewUUID creates a UUID value.
func NewUUID(u uuid.UUID) UUID {
	return UUID(u)
}

// IsNull reports whether v is the Null variant.
func IsNull(v ScalarValue) bool {
	_, ok := v.(Null)
	return ok
}

// SortOrder is the client-facing ordering direction.
type SortOrder int

const (
	SortOrderUnspecified SortOrder = iota
	Ascending
	Descending
)

// String returns the lowercase direction name.
func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "unspecified"
	}
}

// ParseSortOrder maps "asc"/"desc" (any case) to a SortOrder.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(s) {
	case "asc":
		return Ascending, true
	case "desc":
		return Descending, true
	default:
		return SortOrderUnspecified, false
	}
}
