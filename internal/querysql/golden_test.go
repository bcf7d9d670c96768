package querysql

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/raymondSeger/prisma/internal/compiler"
	"github.com/raymondSeger/prisma/internal/filter"
	"github.com/raymondSeger/prisma/internal/ir"
)

// TestGolden runs filter documents through parse, compile and render and
// compares the SQL and parameters with testdata/golden.
func TestGolden(t *testing.T) {
	tests := []struct {
		name  string
		model string
		doc   string
	}{
		{"adults_named_bob", "User", `{age: {gte: 18}, name: {contains: bob}}`},
		{"authors_with_published_posts", "User", `{posts: {some: {published: true}}}`},
		{"every_post_published", "User", `{posts: {every: {published: true}}}`},
		{"or_with_null_roles", "User", `{OR: [{role: {in: [null]}}, {role: admin}, {age: {lt: null}}]}`},
		{"empty_or", "User", `{OR: []}`},
		{"not_negates_conjunction", "User", `{NOT: [{age: {gt: 18}}, {email: {ends_with: "@x.io"}}]}`},
	}

	schema := testSchema()
	parser := filter.NewParser(schema)
	c := compiler.New(NewSubSelectBuilder(schema))
	r := NewRenderer()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := schema.Model(tt.model)
			require.NoError(t, err)

			f, err := parser.Parse([]byte(tt.doc), tt.model)
			require.NoError(t, err)

			sql, params, err := r.Select(SelectFor(model, c.Compile(f, model), nil))
			require.NoError(t, err)

			if params == nil {
				params = []any{}
			}
			paramsJSON, err := ir.MarshalCanonical(params)
			require.NoError(t, err)

			g.Assert(t, tt.name, []byte(fmt.Sprintf("%s\n%s\n", sql, paramsJSON)))
		})
	}
}
