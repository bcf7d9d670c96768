package store

import (
	"path/filepath"
	"testing"

	"github.com/raymondSeger/prisma/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testSchema returns a users/posts schema covering every field type.
func testSchema() *ir.Schema {
	return &ir.Schema{Models: map[string]*ir.Model{
		"User": {
			Name:       "User",
			Table:      "users",
			PrimaryKey: "id",
			Fields: []ir.Field{
				{Name: "id", Type: ir.FieldInt},
				{Name: "name", Type: ir.FieldString},
				{Name: "age", Type: ir.FieldInt},
				{Name: "score", Type: ir.FieldFloat},
				{Name: "active", Type: ir.FieldBool},
				{Name: "joinedAt", Column: "joined_at", Type: ir.FieldDateTime},
				{Name: "role", Type: ir.FieldEnum, EnumValues: []string{"admin", "member"}},
				{Name: "meta", Type: ir.FieldJSON},
				{Name: "token", Type: ir.FieldUUID},
			},
			Relations: []ir.Relation{
				{Name: "posts", Model: "Post", Kind: ir.ToMany, From: "id", To: "authorId"},
			},
		},
		"Post": {
			Name:       "Post",
			Table:      "posts",
			PrimaryKey: "id",
			Fields: []ir.Field{
				{Name: "id", Type: ir.FieldID},
				{Name: "title", Type: ir.FieldString},
				{Name: "authorId", Column: "author_id", Type: ir.FieldInt},
				{Name: "published", Type: ir.FieldBool},
			},
			Relations: []ir.Relation{
				{Name: "author", Model: "User", Kind: ir.ToOne, From: "authorId", To: "id"},
			},
		},
	}}
}

func mustModel(t *testing.T, s *ir.Schema, name string) *ir.Model {
	t.Helper()
	m, err := s.Model(name)
	if err != nil {
		t.Fatalf("Model(%q): %v", name, err)
	}
	return m
}
