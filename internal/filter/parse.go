package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// DefaultMaxDepth bounds filter nesting when Parser.MaxDepth is zero.
const DefaultMaxDepth = 64

// ErrTooDeep is returned when a document nests deeper than the parser allows.
var ErrTooDeep = errors.New("filter nesting exceeds maximum depth")

// ParseError describes a malformed filter document.
type ParseError struct {
	Path    string // location in the document, e.g. "where.AND[1].age"
	Line    int    // 1-based source line, 0 if unknown
	Message string
	Err     error // underlying error (optional)
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s (line %d)", e.Path, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", loc, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Logical keywords of the filter document.
const (
	keyAnd = "AND"
	keyOr  = "OR"
	keyNot = "NOT"
)

// Parser decodes YAML or JSON filter documents into Filters, resolving
// field names against Schema.
//
// Document shape:
//
//	AND: [ <where>, ... ]           # also OR, NOT
//	<field>: <value>                # shorthand for equals
//	<field>: { gt: 18, lt: 65 }     # several operators are AND-ed
//	<relation>: { some: <where> }   # every, none; "is" for to-one
//
// A bare true or false is a constant filter. Clauses of one mapping are
// AND-ed in document order.
type Parser struct {
	Schema   *ir.Schema
	MaxDepth int
}

// NewParser creates a Parser with the default depth limit.
func NewParser(schema *ir.Schema) *Parser {
	return &Parser{Schema: schema, MaxDepth: DefaultMaxDepth}
}

// Parse decodes data as a filter over the named model.
func (p *Parser) Parse(data []byte, model string) (Filter, error) {
	m, err := p.Schema.Model(model)
	if err != nil {
		return nil, &ParseError{Path: "where", Message: "resolve model", Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: "where", Message: "invalid document", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Path: "where", Message: "empty document"}
	}

	if alias := findAlias(&doc); alias != nil {
		return nil, errorAt(alias, "where", "aliases are not allowed in filter documents (*%s)", alias.Value)
	}

	return p.parseWhere(doc.Content[0], m, "where", 1)
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

// parseWhere decodes one filter document node against model m.
func (p *Parser) parseWhere(n *yaml.Node, m *ir.Model, path string, depth int) (Filter, error) {
	if depth > p.maxDepth() {
		return nil, &ParseError{Path: path, Line: n.Line, Message: fmt.Sprintf("depth %d", depth), Err: ErrTooDeep}
	}

	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() != "!!bool" {
			return nil, errorAt(n, path, "expected a mapping or a boolean, got %s", n.ShortTag())
		}
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, &ParseError{Path: path, Line: n.Line, Message: "invalid boolean", Err: err}
		}
		return Bool(b), nil

	case yaml.MappingNode:
		var clauses []Filter
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i].Value, n.Content[i+1]
			keyPath := path + "." + key

			parsed, err := p.parseClause(key, val, m, keyPath, depth)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, parsed...)
		}
		if len(clauses) == 1 {
			return clauses[0], nil
		}
		return And{Filters: clauses}, nil

	default:
		return nil, errorAt(n, path, "expected a mapping or a boolean")
	}
}

// parseClause decodes one key of a where mapping.
func (p *Parser) parseClause(key string, val *yaml.Node, m *ir.Model, path string, depth int) ([]Filter, error) {
	switch key {
	case keyAnd, keyOr, keyNot:
		subs, err := p.parseList(val, m, path, depth)
		if err != nil {
			return nil, err
		}
		switch key {
		case keyAnd:
			return []Filter{And{Filters: subs}}, nil
		case keyOr:
			return []Filter{Or{Filters: subs}}, nil
		default:
			return []Filter{Not{Filters: subs}}, nil
		}
	}

	if field, ok := m.Field(key); ok {
		return p.parseScalarField(m, field, val, path)
	}
	if rel, ok := m.Relation(key); ok {
		return p.parseRelation(rel, val, path, depth)
	}
	return nil, errorAt(val, path, "unknown field %q on model %s", key, m.Name)
}

// parseList decodes the operand of AND/OR/NOT: a sequence of documents or
// a single mapping.
func (p *Parser) parseList(n *yaml.Node, m *ir.Model, path string, depth int) ([]Filter, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		subs := make([]Filter, 0, len(n.Content))
		for i, item := range n.Content {
			sub, err := p.parseWhere(item, m, fmt.Sprintf("%s[%d]", path, i), depth+1)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		return subs, nil
	case yaml.MappingNode:
		sub, err := p.parseWhere(n, m, path, depth+1)
		if err != nil {
			return nil, err
		}
		return []Filter{sub}, nil
	default:
		return nil, errorAt(n, path, "expected a list of filters")
	}
}

// parseScalarField decodes `field: value` or `field: {op: value, ...}`.
func (p *Parser) parseScalarField(m *ir.Model, field ir.Field, n *yaml.Node, path string) ([]Filter, error) {
	column := queryir.NewColumn(m.Table, m.Column(field.Name))

	if n.Kind != yaml.MappingNode || (field.Type == ir.FieldJSON && !isOperatorMapping(n)) {
		v, err := decodeValue(field, n, path)
		if err != nil {
			return nil, err
		}
		return []Filter{ScalarFilter{Field: column, Operator: Equals, Value: v}}, nil
	}

	if len(n.Content) == 0 {
		return nil, errorAt(n, path, "empty operator mapping")
	}

	filters := make([]Filter, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		opName, operand := n.Content[i].Value, n.Content[i+1]
		opPath := path + "." + opName

		op, ok := ParseOperator(opName)
		if !ok {
			return nil, errorAt(n.Content[i], opPath, "unknown operator %q", opName)
		}

		sf := ScalarFilter{Field: column, Operator: op}
		if op.IsList() {
			if operand.Kind != yaml.SequenceNode {
				return nil, errorAt(operand, opPath, "%s expects a list", opName)
			}
			sf.Values = make([]ir.ScalarValue, 0, len(operand.Content))
			for j, item := range operand.Content {
				v, err := decodeValue(field, item, fmt.Sprintf("%s[%d]", opPath, j))
				if err != nil {
					return nil, err
				}
				sf.Values = append(sf.Values, v)
			}
		} else {
			v, err := decodeValue(field, operand, opPath)
			if err != nil {
				return nil, err
			}
			sf.Value = v
		}
		filters = append(filters, sf)
	}
	return filters, nil
}

// isOperatorMapping reports a non-empty mapping whose keys are all operator
// keywords. JSON fields use it to tell operators from object literals.
func isOperatorMapping(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return false
	}
	for i := 0; i < len(n.Content); i += 2 {
		if _, ok := ParseOperator(n.Content[i].Value); !ok {
			return false
		}
	}
	return true
}

// parseRelation decodes `relation: {some|every|none|is: <where>}`.
func (p *Parser) parseRelation(rel ir.Relation, n *yaml.Node, path string, depth int) ([]Filter, error) {
	related, err := p.Schema.Model(rel.Model)
	if err != nil {
		return nil, &ParseError{Path: path, Line: n.Line, Message: "resolve related model", Err: err}
	}

	if n.Kind != yaml.MappingNode || len(n.Content) == 0 {
		return nil, errorAt(n, path, "relation filter expects a mapping of some/every/none/is")
	}

	filters := make([]Filter, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		keyPath := path + "." + key

		var cond RelationCondition
		switch key {
		case "every":
			cond = EveryRelated
		case "some":
			cond = SomeRelated
		case "none":
			cond = NoRelated
		case "is":
			cond = ToOneRelated
		default:
			return nil, errorAt(n.Content[i], keyPath, "unknown relation condition %q", key)
		}

		if (cond == ToOneRelated) != (rel.Kind == ir.ToOne) {
			return nil, errorAt(n.Content[i], keyPath, "%q is not valid for a to-%s relation", key, rel.Kind)
		}

		nested, err := p.parseWhere(n.Content[i+1], related, keyPath, depth+1)
		if err != nil {
			return nil, err
		}
		filters = append(filters, Relation{Field: rel.Name, Condition: cond, Nested: nested})
	}
	return filters, nil
}

// decodeValue converts an operand node into a ScalarValue typed by field.
func decodeValue(field ir.Field, n *yaml.Node, path string) (ir.ScalarValue, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return ir.Null{}, nil
	}

	if field.Type == ir.FieldJSON {
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &ParseError{Path: path, Line: n.Line, Message: "invalid json operand", Err: err}
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, &ParseError{Path: path, Line: n.Line, Message: "invalid json operand", Err: err}
		}
		return ir.JSON(raw), nil
	}

	if n.Kind != yaml.ScalarNode {
		return nil, errorAt(n, path, "expected a %s value", field.Type)
	}
	tag := n.ShortTag()

	switch field.Type {
	case ir.FieldString:
		if tag != "!!str" {
			return nil, errorAt(n, path, "expected a string, got %s", tag)
		}
		return ir.String(n.Value), nil

	case ir.FieldInt:
		var i int64
		if tag != "!!int" || n.Decode(&i) != nil {
			return nil, errorAt(n, path, "expected an integer, got %q", n.Value)
		}
		return ir.Int(i), nil

	case ir.FieldFloat:
		var f float64
		if (tag != "!!int" && tag != "!!float") || n.Decode(&f) != nil {
			return nil, errorAt(n, path, "expected a number, got %q", n.Value)
		}
		return ir.Float(f), nil

	case ir.FieldBool:
		var b bool
		if tag != "!!bool" || n.Decode(&b) != nil {
			return nil, errorAt(n, path, "expected a boolean, got %q", n.Value)
		}
		return ir.Boolean(b), nil

	case ir.FieldDateTime:
		t, err := parseTime(n.Value)
		if err != nil {
			return nil, &ParseError{Path: path, Line: n.Line, Message: "expected an RFC 3339 timestamp", Err: err}
		}
		return ir.NewDateTime(t), nil

	case ir.FieldEnum:
		if tag != "!!str" {
			return nil, errorAt(n, path, "expected an enum symbol, got %s", tag)
		}
		if len(field.EnumValues) > 0 && !slices.Contains(field.EnumValues, n.Value) {
			return nil, errorAt(n, path, "%q is not one of %v", n.Value, field.EnumValues)
		}
		return ir.Enum(n.Value), nil

	case ir.FieldUUID:
		u, err := uuid.Parse(n.Value)
		if err != nil {
			return nil, &ParseError{Path: path, Line: n.Line, Message: "expected a uuid", Err: err}
		}
		return ir.NewUUID(u), nil

	case ir.FieldID:
		switch tag {
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return nil, &ParseError{Path: path, Line: n.Line, Message: "invalid integer id", Err: err}
			}
			return ir.NewIntID(i), nil
		case "!!str":
			return ir.NewID(n.Value), nil
		}
		return nil, errorAt(n, path, "expected a string or integer id, got %s", tag)

	default:
		return nil, errorAt(n, path, "field %s has unsupported type %q", field.Name, field.Type)
	}
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// findAlias returns the first alias node under n, or nil. Aliases are not
// followed, so the walk is linear in the size of the source.
func findAlias(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode {
		return n
	}
	for _, c := range n.Content {
		if a := findAlias(c); a != nil {
			return a
		}
	}
	return nil
}

func errorAt(n *yaml.Node, path, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Line: n.Line, Message: fmt.Sprintf(format, args...)}
}
