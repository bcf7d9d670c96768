package queryir

// Leaf is a single non-compound predicate over one column.
//
// Sealed: Compare and SubSelect are the only implementations.
type Leaf interface {
	leafNode()
	String() string
}

// CompareOp identifies the predicate a Compare leaf applies.
type CompareOp int

const (
	OpIsNull CompareOp = iota
	OpIsNotNull
	OpEquals
	OpNotEquals
	OpLike
	OpNotLike
	OpBeginsWith
	OpNotBeginsWith
	OpEndsWith
	OpNotEndsWith
	OpLessThan
	OpLessThanOrEquals
	OpGreaterThan
	OpGreaterThanOrEquals
	OpIn
	OpNotIn
)

var compareOpNames = [...]string{
	OpIsNull:              "is_null",
	OpIsNotNull:           "is_not_null",
	OpEquals:              "equals",
	OpNotEquals:           "not_equals",
	OpLike:                "like",
	OpNotLike:             "not_like",
	OpBeginsWith:          "begins_with",
	OpNotBeginsWith:       "not_begins_with",
	OpEndsWith:            "ends_with",
	OpNotEndsWith:         "not_ends_with",
	OpLessThan:            "less_than",
	OpLessThanOrEquals:    "less_than_or_equals",
	OpGreaterThan:         "greater_than",
	OpGreaterThanOrEquals: "greater_than_or_equals",
	OpIn:                  "in",
	OpNotIn:               "not_in",
}

// String returns the snake_case name of the operator.
func (op CompareOp) String() string {
	if op >= 0 && int(op) < len(compareOpNames) {
		return compareOpNames[op]
	}
	return "unknown"
}

// IsPattern reports whether op takes a LIKE pattern.
func (op CompareOp) IsPattern() bool {
	switch op {
	case OpLike, OpNotLike, OpBeginsWith, OpNotBeginsWith, OpEndsWith, OpNotEndsWith:
		return true
	}
	return false
}

// Compare is a column predicate against a literal.
//
// Value is set for single-operand operators (pattern operators carry the
// finished LIKE pattern as Text), Values for In/NotIn, and neither for
// IsNull/IsNotNull.
type Compare struct {
	Column Column
	Op     CompareOp
	Value  Value
	Values []Value
}

func (Compare) leafNode() {}

// SubSelect is `column [NOT] IN (SELECT ...)`.
type SubSelect struct {
	Column  Column
	Negated bool
	Select  Select
}

func (SubSelect) leafNode() {}

// FieldRef is the capability a scalar filter's field exposes: one builder
// per leaf predicate. Each builder returns exactly one leaf.
type FieldRef interface {
	IsNull() Leaf
	IsNotNull() Leaf
	Equals(v Value) Leaf
	NotEquals(v Value) Leaf
	Like(s string) Leaf
	NotLike(s string) Leaf
	BeginsWith(s string) Leaf
	NotBeginsWith(s string) Leaf
	EndsWith(s string) Leaf
	NotEndsWith(s string) Leaf
	LessThan(v Value) Leaf
	LessThanOrEquals(v Value) Leaf
	GreaterThan(v Value) Leaf
	GreaterThanOrEquals(v Value) Leaf
	InSelection(vs []Value) Leaf
	NotInSelection(vs []Value) Leaf
}

// Column is a table-qualified column reference. It implements FieldRef.
// Table may be empty for unqualified references.
type Column struct {
	Table string
	Name  string
}

var _ FieldRef = Column{}

// NewColumn creates a qualified column reference.
func NewColumn(table, name string) Column {
	return Column{Table: table, Name: name}
}

func (c Column) compare(op CompareOp, v Value) Leaf {
	return Compare{Column: c, Op: op, Value: v}
}

func (c Column) IsNull() Leaf    { return Compare{Column: c, Op: OpIsNull} }
func (c Column) IsNotNull() Leaf { return Compare{Column: c, Op: OpIsNotNull} }

func (c Column) Equals(v Value) Leaf    { return c.compare(OpEquals, v) }
func (c Column) NotEquals(v Value) Leaf { return c.compare(OpNotEquals, v) }

// Like matches values containing s anywhere.
func (c Column) Like(s string) Leaf    { return c.compare(OpLike, Text("%"+s+"%")) }
func (c Column) NotLike(s string) Leaf { return c.compare(OpNotLike, Text("%"+s+"%")) }

// BeginsWith matches values with prefix s.
func (c Column) BeginsWith(s string) Leaf    { return c.compare(OpBeginsWith, Text(s+"%")) }
func (c Column) NotBeginsWith(s string) Leaf { return c.compare(OpNotBeginsWith, Text(s+"%")) }

// EndsWith matches values with suffix s.
func (c Column) EndsWith(s string) Leaf    { return c.compare(OpEndsWith, Text("%"+s)) }
func (c Column) NotEndsWith(s string) Leaf { return c.compare(OpNotEndsWith, Text("%"+s)) }

func (c Column) LessThan(v Value) Leaf            { return c.compare(OpLessThan, v) }
func (c Column) LessThanOrEquals(v Value) Leaf    { return c.compare(OpLessThanOrEquals, v) }
func (c Column) GreaterThan(v Value) Leaf         { return c.compare(OpGreaterThan, v) }
func (c Column) GreaterThanOrEquals(v Value) Leaf { return c.compare(OpGreaterThanOrEquals, v) }

// InSelection keeps the order and duplicates of vs.
func (c Column) InSelection(vs []Value) Leaf {
	return Compare{Column: c, Op: OpIn, Values: vs}
}

func (c Column) NotInSelection(vs []Value) Leaf {
	return Compare{Column: c, Op: OpNotIn, Values: vs}
}
