package querysql

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymondSeger/prisma/internal/queryir"
)

var (
	age  = queryir.NewColumn("users", "age")
	name = queryir.NewColumn("users", "name")
)

func TestRenderer_Where(t *testing.T) {
	tests := []struct {
		name       string
		tree       queryir.ConditionTree
		wantSQL    string
		wantParams []any
	}{
		{"no condition", queryir.NoCondition{}, "1 = 1", nil},
		{"negative condition", queryir.NegativeCondition{}, "1 = 0", nil},
		{"is null", queryir.NewSingle(age.IsNull()), "users.age IS NULL", nil},
		{"is not null", queryir.NewSingle(age.IsNotNull()), "users.age IS NOT NULL", nil},
		{"equals", queryir.NewSingle(age.Equals(queryir.Integer(18))), "users.age = ?", []any{int64(18)}},
		{"not equals", queryir.NewSingle(age.NotEquals(queryir.Integer(18))), "users.age <> ?", []any{int64(18)}},
		{"like", queryir.NewSingle(name.Like("bob")), "users.name LIKE ?", []any{"%bob%"}},
		{"not like", queryir.NewSingle(name.NotLike("bob")), "users.name NOT LIKE ?", []any{"%bob%"}},
		{"begins with", queryir.NewSingle(name.BeginsWith("bo")), "users.name LIKE ?", []any{"bo%"}},
		{"not ends with", queryir.NewSingle(name.NotEndsWith("ob")), "users.name NOT LIKE ?", []any{"%ob"}},
		{"lt", queryir.NewSingle(age.LessThan(queryir.Real(1.5))), "users.age < ?", []any{1.5}},
		{"lte", queryir.NewSingle(age.LessThanOrEquals(queryir.Integer(2))), "users.age <= ?", []any{int64(2)}},
		{"gt", queryir.NewSingle(age.GreaterThan(queryir.Integer(2))), "users.age > ?", []any{int64(2)}},
		{"gte", queryir.NewSingle(age.GreaterThanOrEquals(queryir.Integer(2))), "users.age >= ?", []any{int64(2)}},
		{"lt null binds nil", queryir.NewSingle(age.LessThan(queryir.NullValue{})), "users.age < ?", []any{nil}},
		{
			"in",
			queryir.NewSingle(age.InSelection([]queryir.Value{queryir.Integer(3), queryir.NullValue{}, queryir.Integer(3)})),
			"users.age IN (?, ?, ?)",
			[]any{int64(3), nil, int64(3)},
		},
		{
			"not in",
			queryir.NewSingle(age.NotInSelection([]queryir.Value{queryir.Integer(1)})),
			"users.age NOT IN (?)",
			[]any{int64(1)},
		},
		{"empty in", queryir.NewSingle(age.InSelection([]queryir.Value{})), "1 = 0", nil},
		{"empty not in", queryir.NewSingle(age.NotInSelection(nil)), "1 = 1", nil},
		{
			"and is parenthesized left to right",
			queryir.NewAnd(
				queryir.NewSingle(age.GreaterThan(queryir.Integer(18))),
				queryir.NewSingle(age.LessThan(queryir.Integer(65))),
			),
			"(users.age > ? AND users.age < ?)",
			[]any{int64(18), int64(65)},
		},
		{
			"or nested in not",
			queryir.NewNot(queryir.NewOr(
				queryir.NewSingle(name.Equals(queryir.Text("a"))),
				queryir.NewOr(queryir.NewSingle(name.Equals(queryir.Text("b"))), queryir.NegativeCondition{}),
			)),
			"NOT ((users.name = ? OR (users.name = ? OR 1 = 0)))",
			[]any{"a", "b"},
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := r.Where(tt.tree)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestRenderer_Where_Errors(t *testing.T) {
	r := NewRenderer()

	_, _, err := r.Where(nil)
	assert.ErrorContains(t, err, "unsupported condition tree node")

	_, _, err = r.Where(queryir.NewSingle(queryir.Compare{Column: age, Op: queryir.CompareOp(99)}))
	assert.ErrorContains(t, err, "unsupported compare operator")

	_, _, err = r.Where(queryir.NewSingle(queryir.Compare{Column: age, Op: queryir.OpEquals}))
	assert.ErrorContains(t, err, "has no value")

	_, _, err = r.Where(queryir.NewSingle(queryir.SubSelect{Column: age}))
	assert.ErrorContains(t, err, "select has no table")
}

func TestRenderer_QuotesIdentifiers(t *testing.T) {
	r := NewRenderer()
	col := queryir.NewColumn("order", "group by")

	sql, _, err := r.Where(queryir.NewSingle(col.IsNull()))
	require.NoError(t, err)
	assert.Equal(t, `"order"."group by" IS NULL`, sql)

	sql, _, err = r.Where(queryir.NewSingle(queryir.NewColumn("", `a"b`).IsNull()))
	require.NoError(t, err)
	assert.Equal(t, `"a""b" IS NULL`, sql)
}

func TestRenderer_Select(t *testing.T) {
	r := NewRenderer()

	t.Run("no where for no condition", func(t *testing.T) {
		sql, params, err := r.Select(queryir.Select{Table: "users", Where: queryir.NoCondition{}})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM users", sql)
		assert.Empty(t, params)
	})

	t.Run("nil where", func(t *testing.T) {
		sql, _, err := r.Select(queryir.Select{Table: "users", Columns: []string{"id"}})
		require.NoError(t, err)
		assert.Equal(t, "SELECT users.id FROM users", sql)
	})

	t.Run("where and order", func(t *testing.T) {
		sql, params, err := r.Select(queryir.Select{
			Table:   "users",
			Columns: []string{"id", "name"},
			Where:   queryir.NewSingle(age.Equals(queryir.Integer(3))),
			OrderBy: []queryir.Ordering{
				{Column: age, Order: queryir.OrderDesc},
				{Column: queryir.NewColumn("users", "id"), Order: queryir.OrderAsc},
			},
		})
		require.NoError(t, err)
		assert.Equal(t,
			"SELECT users.id, users.name FROM users WHERE users.age = ? ORDER BY users.age DESC, users.id ASC",
			sql)
		assert.Equal(t, []any{int64(3)}, params)
	})

	t.Run("negative condition keeps where", func(t *testing.T) {
		sql, _, err := r.Select(queryir.Select{Table: "users", Where: queryir.NegativeCondition{}})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM users WHERE 1 = 0", sql)
	})

	t.Run("missing table", func(t *testing.T) {
		_, _, err := r.Select(queryir.Select{})
		assert.Error(t, err)
	})
}

func TestRenderer_Deterministic(t *testing.T) {
	tree := queryir.NewOr(
		queryir.NewSingle(age.InSelection([]queryir.Value{queryir.Integer(1), queryir.Integer(2)})),
		queryir.NewSingle(name.Like("x")),
	)
	r := NewRenderer()

	sql1, params1, err := r.Where(tree)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		sql, params, err := r.Where(tree)
		require.NoError(t, err)
		assert.Equal(t, sql1, sql)
		assert.Equal(t, params1, params)
	}
}

func TestParam(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 1, 2, 3, 4, 5, 600, time.FixedZone("X", 3600))

	assert.Equal(t, "s", Param(queryir.Text("s")))
	assert.Equal(t, 2.5, Param(queryir.Real(2.5)))
	assert.Equal(t, true, Param(queryir.Boolean(true)))
	assert.Equal(t, int64(7), Param(queryir.Integer(7)))
	assert.Equal(t, `{"a":1}`, Param(queryir.JSON(`{"a":1}`)))
	assert.Equal(t, id.String(), Param(queryir.UUIDValue(id)))
	assert.Equal(t, "2024-01-02T02:04:05.000000600Z", Param(queryir.DateTime(ts)))
	assert.Nil(t, Param(queryir.NullValue{}))
}

func TestNormalizeParam(t *testing.T) {
	early := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	late := time.Date(2024, 1, 2, 3, 4, 5, 100, time.UTC)

	// fixed width keeps text order chronological
	assert.Less(t, NormalizeParam(early).(string), NormalizeParam(late).(string))
	assert.Equal(t, "x", NormalizeParam("x"))
	assert.Equal(t, 3, NormalizeParam(3))
}
