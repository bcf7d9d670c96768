package ir

import (
	"fmt"
	"sort"
)

// FieldType is the scalar type of a model field. It decides how filter
// operands for the field are decoded.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldInt      FieldType = "int"
	FieldFloat    FieldType = "float"
	FieldBool     FieldType = "bool"
	FieldDateTime FieldType = "datetime"
	FieldEnum     FieldType = "enum"
	FieldJSON     FieldType = "json"
	FieldUUID     FieldType = "uuid"
	FieldID       FieldType = "id"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldInt, FieldFloat, FieldBool, FieldDateTime,
		FieldEnum, FieldJSON, FieldUUID, FieldID:
		return true
	}
	return false
}

// RelationKind distinguishes to-one from to-many relations.
type RelationKind string

const (
	ToOne  RelationKind = "one"
	ToMany RelationKind = "many"
)

// Schema is the set of models a filter can reference.
type Schema struct {
	Models map[string]*Model `json:"models"`
}

// Model describes one table.
type Model struct {
	Name       string     `json:"name"`
	Table      string     `json:"table"`
	PrimaryKey string     `json:"primary_key"`
	Fields     []Field    `json:"fields"`
	Relations  []Relation `json:"relations,omitempty"`
}

// Field is a scalar column of a model.
type Field struct {
	Name       string    `json:"name"`
	Column     string    `json:"column"`
	Type       FieldType `json:"type"`
	EnumValues []string  `json:"enum_values,omitempty"`
}

// Relation links a model to a related model.
//
// From is a field on the owning model and To a field on the related model;
// a row matches when its From value appears among the related To values.
// For a to-many relation From is usually the primary key and To the foreign
// key; for a to-one relation it is the other way around.
type Relation struct {
	Name  string       `json:"name"`
	Model string       `json:"model"`
	Kind  RelationKind `json:"kind"`
	From  string       `json:"from"`
	To    string       `json:"to"`
}

// Model returns the model with the given name.
func (s *Schema) Model(name string) (*Model, error) {
	if s == nil {
		return nil, fmt.Errorf("nil schema")
	}
	m, ok := s.Models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", name)
	}
	return m, nil
}

// ModelNames returns model names in sorted order.
func (s *Schema) ModelNames() []string {
	names := make([]string, 0, len(s.Models))
	for name := range s.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field looks up a scalar field by name.
func (m *Model) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Relation looks up a relation by name.
func (m *Model) Relation(name string) (Relation, bool) {
	for _, r := range m.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// Column returns the column backing a field, falling back to the field
// name when the field is unknown.
func (m *Model) Column(field string) string {
	if f, ok := m.Field(field); ok && f.Column != "" {
		return f.Column
	}
	return field
}

// PrimaryKeyColumn returns the column of the primary key field.
func (m *Model) PrimaryKeyColumn() string {
	pk := m.PrimaryKey
	if pk == "" {
		pk = "id"
	}
	return m.Column(pk)
}
