package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const blogSchema = `package blog

models: User: {
	table: "users"
	fields: {
		id:       type: "int"
		name:     type: "string"
		age:      type: "int"
		joinedAt: {type: "datetime", column: "joined_at"}
		role:     {type: "enum", values: ["admin", "member"]}
	}
	relations: posts: {model: "Post", kind: "many", from: "id", to: "authorId"}
}

models: Post: {
	table: "posts"
	fields: {
		id:        type: "int"
		title:     type: "string"
		authorId:  {type: "int", column: "author_id"}
		published: type: "bool"
	}
	relations: author: {model: "User", kind: "one", from: "authorId", to: "id"}
}
`

const usersRows = `
- {id: 1, name: alice, age: 30, joinedAt: 2024-01-02, role: admin}
- {id: 2, name: bob, age: 17, role: member}
- {id: 3, name: carol}
`

const postsRows = `
- {id: 10, title: Go tips, authorId: 1, published: true}
- {id: 11, title: Draft, authorId: 1, published: false}
- {id: 12, title: Hello, authorId: 2, published: false}
`

// writeSchema writes the blog models to a fresh schema directory.
func writeSchema(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "schema")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, dir, "blog.cue", blogSchema)
	return dir
}

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seedDatabase loads the blog rows into a new database and returns its path.
func seedDatabase(t *testing.T, schemaDir string) string {
	t.Helper()
	dir := t.TempDir()
	db := filepath.Join(dir, "blog.db")

	_, err := execute(t, "", "--schema", schemaDir, "load", "--db", db, "--model", "User",
		writeFile(t, dir, "users.yaml", usersRows))
	require.NoError(t, err)
	_, err = execute(t, "", "--schema", schemaDir, "load", "--db", db, "--model", "Post",
		writeFile(t, dir, "posts.yaml", postsRows))
	require.NoError(t, err)
	return db
}
