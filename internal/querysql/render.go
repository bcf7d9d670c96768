package querysql

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raymondSeger/prisma/internal/queryir"
)

// TimeLayout is the fixed-width UTC form timestamps are bound and stored
// in, so that text comparison orders them chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Renderer renders condition trees to parameterized SQL for SQLite.
//
// CRITICAL: values are never interpolated, every literal becomes a `?`
// parameter. Identifiers are quoted when needed.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Where renders a condition tree as the body of a WHERE clause.
// Returns (sql, params, error).
func (r *Renderer) Where(tree queryir.ConditionTree) (string, []any, error) {
	var params []any
	sql, err := r.renderTree(tree, &params)
	if err != nil {
		return "", nil, err
	}
	return sql, params, nil
}

// Select renders a full query.
//
// The WHERE clause is omitted for a nil or NoCondition tree. ORDER BY is
// emitted in the order given; use SelectFor to get a deterministic
// primary-key ordering by default.
func (r *Renderer) Select(q queryir.Select) (string, []any, error) {
	var params []any
	sql, err := r.renderSelect(q, &params)
	if err != nil {
		return "", nil, err
	}

	if len(q.OrderBy) > 0 {
		terms := make([]string, len(q.OrderBy))
		for i, o := range q.OrderBy {
			terms[i] = renderColumn(o.Column) + " " + o.Order.String()
		}
		sql += " ORDER BY " + strings.Join(terms, ", ")
	}
	return sql, params, nil
}

// renderSelect renders SELECT ... FROM ... [WHERE ...] without ordering.
func (r *Renderer) renderSelect(q queryir.Select, params *[]any) (string, error) {
	if q.Table == "" {
		return "", fmt.Errorf("select has no table")
	}

	cols := "*"
	if len(q.Columns) > 0 {
		parts := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			parts[i] = renderColumn(queryir.NewColumn(q.Table, c))
		}
		cols = strings.Join(parts, ", ")
	}

	sql := fmt.Sprintf("SELECT %s FROM %s", cols, QuoteIdentifier(q.Table))

	switch q.Where.(type) {
	case nil, queryir.NoCondition:
		return sql, nil
	}

	where, err := r.renderTree(q.Where, params)
	if err != nil {
		return "", fmt.Errorf("render where: %w", err)
	}
	return sql + " WHERE " + where, nil
}

// renderTree renders one tree node, appending its parameters.
func (r *Renderer) renderTree(tree queryir.ConditionTree, params *[]any) (string, error) {
	switch node := tree.(type) {
	case queryir.NoCondition:
		return "1 = 1", nil
	case queryir.NegativeCondition:
		return "1 = 0", nil
	case queryir.Single:
		return r.renderLeaf(node.Leaf, params)
	case queryir.And:
		return r.renderBinary("AND", node.Left, node.Right, params)
	case queryir.Or:
		return r.renderBinary("OR", node.Left, node.Right, params)
	case queryir.Not:
		inner, err := r.renderTree(node.Inner, params)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	default:
		return "", fmt.Errorf("unsupported condition tree node: %T", tree)
	}
}

func (r *Renderer) renderBinary(op string, left, right queryir.ConditionTree, params *[]any) (string, error) {
	l, err := r.renderTree(left, params)
	if err != nil {
		return "", err
	}
	rr, err := r.renderTree(right, params)
	if err != nil {
		return "", err
	}
	return "(" + l + " " + op + " " + rr + ")", nil
}

var compareSQL = map[queryir.CompareOp]string{
	queryir.OpEquals:              "=",
	queryir.OpNotEquals:           "<>",
	queryir.OpLike:                "LIKE",
	queryir.OpNotLike:             "NOT LIKE",
	queryir.OpBeginsWith:          "LIKE",
	queryir.OpNotBeginsWith:       "NOT LIKE",
	queryir.OpEndsWith:            "LIKE",
	queryir.OpNotEndsWith:         "NOT LIKE",
	queryir.OpLessThan:            "<",
	queryir.OpLessThanOrEquals:    "<=",
	queryir.OpGreaterThan:         ">",
	queryir.OpGreaterThanOrEquals: ">=",
}

func (r *Renderer) renderLeaf(leaf queryir.Leaf, params *[]any) (string, error) {
	switch l := leaf.(type) {
	case queryir.Compare:
		return r.renderCompare(l, params)
	case queryir.SubSelect:
		sub, err := r.renderSelect(l.Select, params)
		if err != nil {
			return "", fmt.Errorf("render sub-select: %w", err)
		}
		kw := "IN"
		if l.Negated {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", renderColumn(l.Column), kw, sub), nil
	default:
		return "", fmt.Errorf("unsupported leaf: %T", leaf)
	}
}

func (r *Renderer) renderCompare(c queryir.Compare, params *[]any) (string, error) {
	col := renderColumn(c.Column)

	switch c.Op {
	case queryir.OpIsNull:
		return col + " IS NULL", nil
	case queryir.OpIsNotNull:
		return col + " IS NOT NULL", nil
	case queryir.OpIn, queryir.OpNotIn:
		if len(c.Values) == 0 {
			// x IN () is false for every row, x NOT IN () true
			if c.Op == queryir.OpIn {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}
		marks := make([]string, len(c.Values))
		for i, v := range c.Values {
			marks[i] = "?"
			*params = append(*params, Param(v))
		}
		kw := "IN"
		if c.Op == queryir.OpNotIn {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", col, kw, strings.Join(marks, ", ")), nil
	}

	sym, ok := compareSQL[c.Op]
	if !ok {
		return "", fmt.Errorf("unsupported compare operator: %s", c.Op)
	}
	if c.Value == nil {
		return "", fmt.Errorf("%s on %s has no value", c.Op, c.Column)
	}
	*params = append(*params, Param(c.Value))
	return col + " " + sym + " ?", nil
}

func renderColumn(c queryir.Column) string {
	if c.Table == "" {
		return QuoteIdentifier(c.Name)
	}
	return QuoteIdentifier(c.Table) + "." + QuoteIdentifier(c.Name)
}

// Param converts a native value into a database/sql parameter.
// Timestamps become TimeLayout strings, uuids and JSON become text, and
// the null marker becomes nil.
func Param(v queryir.Value) any {
	switch val := v.(type) {
	case queryir.Text:
		return string(val)
	case queryir.Real:
		return float64(val)
	case queryir.Boolean:
		return bool(val)
	case queryir.Integer:
		return int64(val)
	case queryir.DateTime:
		return NormalizeParam(time.Time(val))
	case queryir.JSON:
		return string(val)
	case queryir.UUIDValue:
		return NormalizeParam(uuid.UUID(val))
	default:
		return nil
	}
}

// NormalizeParam converts Go values whose driver encoding would not compare
// consistently with rendered parameters: time.Time to TimeLayout in UTC and
// uuid.UUID to its string form. Other values pass through.
func NormalizeParam(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(TimeLayout)
	case uuid.UUID:
		return val.String()
	default:
		return v
	}
}
