package queryir

// ConditionTree is the boolean structure a WHERE clause is rendered from.
//
// This is a sealed interface - only types in this package implement it.
// Backends switch over it exhaustively:
//   - NoCondition: always true
//   - NegativeCondition: always false
//   - Single: one leaf predicate
//   - And, Or: binary combination
//   - Not: negation
//
// Trees are values. Constructors never share or mutate their children.
type ConditionTree interface {
	conditionNode() // Marker method - seals interface to this package
	String() string
}

// NoCondition matches every row. It is the identity element of AND.
type NoCondition struct{}

func (NoCondition) conditionNode() {}

// NegativeCondition matches no row.
type NegativeCondition struct{}

func (NegativeCondition) conditionNode() {}

// Single wraps exactly one leaf predicate.
type Single struct {
	Leaf Leaf
}

func (Single) conditionNode() {}

// And is true when both operands are true.
type And struct {
	Left  ConditionTree
	Right ConditionTree
}

func (And) conditionNode() {}

// Or is true when either operand is true.
type Or struct {
	Left  ConditionTree
	Right ConditionTree
}

func (Or) conditionNode() {}

// Not negates Inner.
type Not struct {
	Inner ConditionTree
}

func (Not) conditionNode() {}

// NewSingle wraps a leaf.
func NewSingle(leaf Leaf) ConditionTree {
	return Single{Leaf: leaf}
}

// NewAnd combines left and right with AND.
func NewAnd(left, right ConditionTree) ConditionTree {
	return And{Left: left, Right: right}
}

// NewOr combines left and right with OR.
func NewOr(left, right ConditionTree) ConditionTree {
	return Or{Left: left, Right: right}
}

// NewNot negates inner.
func NewNot(inner ConditionTree) ConditionTree {
	return Not{Inner: inner}
}

// Order is the renderer's ordering token.
type Order int

const (
	OrderAsc Order = iota
	OrderDesc
)

// String returns the SQL keyword for the direction.
func (o Order) String() string {
	if o == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// Ordering is one ORDER BY term.
type Ordering struct {
	Column Column
	Order  Order
}

// Select is a single-table query.
//
// Semantics:
//
//	SELECT <columns> FROM <table> WHERE <where> ORDER BY <order_by>
//
// Empty Columns selects every column. A nil Where is NoCondition.
type Select struct {
	Table   string
	Columns []string
	Where   ConditionTree
	OrderBy []Ordering
}
