package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymondSeger/prisma/internal/compiler"
	"github.com/raymondSeger/prisma/internal/filter"
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/querysql"
)

var aliceToken = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// seedBlog stores four users and four posts. Post "d" has no author, which
// exercises the null guard of NOT IN sub-selects.
func seedBlog(t *testing.T) (*Store, *ir.Schema) {
	t.Helper()
	ctx := context.Background()
	s := createTestStore(t)
	schema := testSchema()
	require.NoError(t, s.Migrate(ctx, schema))

	users := mustModel(t, schema, "User")
	posts := mustModel(t, schema, "Post")

	for _, row := range []map[string]any{
		{"id": 1, "name": "alice", "age": 30, "score": 4.5, "active": true, "role": "admin",
			"joinedAt": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "meta": `{"tier":"gold"}`, "token": aliceToken},
		{"id": 2, "name": "bob", "age": 17, "active": false, "role": "member",
			"joinedAt": time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"id": 3, "name": "carol", "active": true},
		{"id": 4, "name": "dave", "age": 65, "role": "member"},
	} {
		require.NoError(t, s.Insert(ctx, users, row))
	}

	for _, row := range []map[string]any{
		{"id": "a", "title": "Go tips", "authorId": 1, "published": true},
		{"id": "b", "title": "Draft", "authorId": 1, "published": false},
		{"id": "c", "title": "Hello", "authorId": 2, "published": true},
		{"id": "d", "title": "Orphan", "published": true},
	} {
		require.NoError(t, s.Insert(ctx, posts, row))
	}
	return s, schema
}

// find runs a filter document end to end and returns the matching primary
// keys in order.
func find(t *testing.T, s *Store, schema *ir.Schema, model, doc string) []any {
	t.Helper()
	m := mustModel(t, schema, model)

	f, err := filter.NewParser(schema).Parse([]byte(doc), model)
	require.NoError(t, err)

	tree := compiler.New(querysql.NewSubSelectBuilder(schema)).Compile(f, m)
	sql, params, err := querysql.NewRenderer().Select(querysql.SelectFor(m, tree, nil))
	require.NoError(t, err)

	rows, err := s.QueryModel(context.Background(), m, sql, params...)
	require.NoError(t, err)

	ids := []any{}
	for _, row := range rows {
		ids = append(ids, row[m.PrimaryKey])
	}
	return ids
}

func ints(ns ...int64) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}

func TestFilters_EndToEnd(t *testing.T) {
	s, schema := seedBlog(t)

	tests := []struct {
		name string
		doc  string
		want []any
	}{
		{"true", `true`, ints(1, 2, 3, 4)},
		{"false", `false`, ints()},
		{"gte skips null", `age: {gte: 18}`, ints(1, 4)},
		{"range", `age: {gt: 17, lt: 65}`, ints(1)},
		{"equals null", `age: null`, ints(3)},
		{"not null", `age: {not: null}`, ints(1, 2, 4)},
		{"in single null", `age: {in: [null]}`, ints(3)},
		{"not in single null", `age: {not_in: [null]}`, ints(1, 2, 4)},
		{"in list", `age: {in: [17, 65, 99]}`, ints(2, 4)},
		{"empty in", `age: {in: []}`, ints()},
		{"empty not in", `age: {not_in: []}`, ints(1, 2, 3, 4)},
		{"empty or", `OR: []`, ints(1, 2, 3, 4)},
		{"empty and", `AND: []`, ints(1, 2, 3, 4)},
		{"or", `OR: [{name: alice}, {name: dave}]`, ints(1, 4)},
		{"not", `NOT: [{age: {lt: 18}}]`, ints(1, 4)},
		{"not conjunction", `NOT: [{active: true}, {role: admin}]`, ints(2, 4)},
		{"contains", `name: {contains: o}`, ints(2, 3)},
		{"starts with", `name: {starts_with: a}`, ints(1)},
		{"ends with", `name: {ends_with: e}`, ints(1, 4)},
		{"not contains", `name: {not_contains: a}`, ints(2)},
		{"bool", `active: true`, ints(1, 3)},
		{"enum", `role: admin`, ints(1)},
		{"float", `score: {lte: 4.5}`, ints(1)},
		{"datetime", `joinedAt: {gt: "2024-03-01"}`, ints(2)},
		{"json", `meta: {tier: gold}`, ints(1)},
		{"uuid", `token: 6ba7b810-9dad-11d1-80b4-00c04fd430c8`, ints(1)},
		{"some", `posts: {some: {published: true}}`, ints(1, 2)},
		{"none", `posts: {none: {published: true}}`, ints(3, 4)},
		{"every", `posts: {every: {published: true}}`, ints(2, 3, 4)},
		{"some any post", `posts: {some: true}`, ints(1, 2)},
		{"none any post", `posts: {none: true}`, ints(3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, find(t, s, schema, "User", tt.doc))
		})
	}
}

func TestFilters_ToOneRelation(t *testing.T) {
	s, schema := seedBlog(t)

	assert.Equal(t, []any{"a", "b"}, find(t, s, schema, "Post", `author: {is: {role: admin}}`))
	assert.Equal(t, []any{"a", "b", "c"}, find(t, s, schema, "Post", `author: {is: true}`))
	assert.Equal(t, []any{"c"}, find(t, s, schema, "Post",
		`{published: true, author: {is: {posts: {none: {published: false}}}}}`))
}
