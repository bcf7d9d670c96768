package querysql

import (
	"github.com/raymondSeger/prisma/internal/ir"
)

// testSchema is a users/posts schema shared by the package tests.
func testSchema() *ir.Schema {
	users := &ir.Model{
		Name:       "User",
		Table:      "users",
		PrimaryKey: "id",
		Fields: []ir.Field{
			{Name: "id", Type: ir.FieldInt},
			{Name: "name", Type: ir.FieldString},
			{Name: "email", Type: ir.FieldString},
			{Name: "age", Type: ir.FieldInt},
			{Name: "role", Type: ir.FieldEnum, EnumValues: []string{"admin", "member"}},
		},
		Relations: []ir.Relation{
			{Name: "posts", Model: "Post", Kind: ir.ToMany, From: "id", To: "authorId"},
		},
	}
	posts := &ir.Model{
		Name:       "Post",
		Table:      "posts",
		PrimaryKey: "id",
		Fields: []ir.Field{
			{Name: "id", Type: ir.FieldInt},
			{Name: "title", Type: ir.FieldString},
			{Name: "authorId", Column: "author_id", Type: ir.FieldInt},
			{Name: "published", Type: ir.FieldBool},
		},
		Relations: []ir.Relation{
			{Name: "author", Model: "User", Kind: ir.ToOne, From: "authorId", To: "id"},
		},
	}
	return &ir.Schema{Models: map[string]*ir.Model{"User": users, "Post": posts}}
}
