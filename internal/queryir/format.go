package queryir

import (
	"fmt"
	"strings"
)

func (NoCondition) String() string       { return "NoCondition" }
func (NegativeCondition) String() string { return "NegativeCondition" }

func (s Single) String() string {
	return "Single(" + leafString(s.Leaf) + ")"
}

func (a And) String() string {
	return "And(" + treeString(a.Left) + ", " + treeString(a.Right) + ")"
}

func (o Or) String() string {
	return "Or(" + treeString(o.Left) + ", " + treeString(o.Right) + ")"
}

func (n Not) String() string {
	return "Not(" + treeString(n.Inner) + ")"
}

func treeString(t ConditionTree) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func leafString(l Leaf) string {
	if l == nil {
		return "<nil>"
	}
	return l.String()
}

// String returns "table.name", or just the name when unqualified.
func (c Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

var compareSymbols = map[CompareOp]string{
	OpEquals:              "=",
	OpNotEquals:           "<>",
	OpLike:                "LIKE",
	OpNotLike:             "NOT LIKE",
	OpBeginsWith:          "LIKE",
	OpNotBeginsWith:       "NOT LIKE",
	OpEndsWith:            "LIKE",
	OpNotEndsWith:         "NOT LIKE",
	OpLessThan:            "<",
	OpLessThanOrEquals:    "<=",
	OpGreaterThan:         ">",
	OpGreaterThanOrEquals: ">=",
}

func (c Compare) String() string {
	switch c.Op {
	case OpIsNull:
		return c.Column.String() + " IS NULL"
	case OpIsNotNull:
		return c.Column.String() + " IS NOT NULL"
	case OpIn, OpNotIn:
		parts := make([]string, len(c.Values))
		for i, v := range c.Values {
			parts[i] = valueString(v)
		}
		kw := "IN"
		if c.Op == OpNotIn {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", c.Column, kw, strings.Join(parts, ", "))
	default:
		sym, ok := compareSymbols[c.Op]
		if !ok {
			sym = c.Op.String()
		}
		return fmt.Sprintf("%s %s %s", c.Column, sym, valueString(c.Value))
	}
}

func (s SubSelect) String() string {
	kw := "IN"
	if s.Negated {
		kw = "NOT IN"
	}
	cols := "*"
	if len(s.Select.Columns) > 0 {
		cols = strings.Join(s.Select.Columns, ", ")
	}
	where := s.Select.Where
	if where == nil {
		where = NoCondition{}
	}
	return fmt.Sprintf("%s %s (SELECT %s FROM %s WHERE %s)", s.Column, kw, cols, s.Select.Table, where)
}

func valueString(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// Describe converts a tree into nested maps suitable for JSON output.
//
//	{"type": "and", "left": {...}, "right": {...}}
//	{"type": "single", "leaf": {"kind": "compare", "column": "users.age", "op": "greater_than", "value": 18}}
func Describe(t ConditionTree) map[string]any {
	switch node := t.(type) {
	case NoCondition:
		return map[string]any{"type": "no_condition"}
	case NegativeCondition:
		return map[string]any{"type": "negative_condition"}
	case Single:
		return map[string]any{"type": "single", "leaf": describeLeaf(node.Leaf)}
	case And:
		return map[string]any{"type": "and", "left": Describe(node.Left), "right": Describe(node.Right)}
	case Or:
		return map[string]any{"type": "or", "left": Describe(node.Left), "right": Describe(node.Right)}
	case Not:
		return map[string]any{"type": "not", "inner": Describe(node.Inner)}
	default:
		return map[string]any{"type": fmt.Sprintf("unknown(%T)", t)}
	}
}

func describeLeaf(l Leaf) map[string]any {
	switch leaf := l.(type) {
	case Compare:
		out := map[string]any{
			"kind":   "compare",
			"column": leaf.Column.String(),
			"op":     leaf.Op.String(),
		}
		switch {
		case leaf.Op == OpIn || leaf.Op == OpNotIn:
			values := make([]any, len(leaf.Values))
			for i, v := range leaf.Values {
				values[i] = Native(v)
			}
			out["values"] = values
		case leaf.Value != nil:
			out["value"] = Native(leaf.Value)
		}
		return out
	case SubSelect:
		sel := map[string]any{"table": leaf.Select.Table}
		cols := make([]any, len(leaf.Select.Columns))
		for i, c := range leaf.Select.Columns {
			cols[i] = c
		}
		sel["columns"] = cols
		if leaf.Select.Where != nil {
			sel["where"] = Describe(leaf.Select.Where)
		}
		return map[string]any{
			"kind":    "sub_select",
			"column":  leaf.Column.String(),
			"negated": leaf.Negated,
			"select":  sel,
		}
	default:
		return map[string]any{"kind": fmt.Sprintf("unknown(%T)", l)}
	}
}
