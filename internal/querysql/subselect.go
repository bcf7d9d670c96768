package querysql

import (
	"fmt"

	"github.com/raymondSeger/prisma/internal/compiler"
	"github.com/raymondSeger/prisma/internal/filter"
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// SubSelectBuilder compiles relation filters into IN / NOT IN sub-selects
// over the related table. It implements compiler.RelationCompiler.
//
// For a relation with columns From (on the filtered model) and To (on the
// related model):
//
//	some   → from IN     (SELECT to FROM related WHERE nested AND to IS NOT NULL)
//	none   → from NOT IN (SELECT to FROM related WHERE nested AND to IS NOT NULL)
//	every  → from NOT IN (SELECT to FROM related WHERE NOT nested AND to IS NOT NULL)
//	is     → from IN     (SELECT to FROM related WHERE nested AND to IS NOT NULL)
//
// The IS NOT NULL guard keeps NOT IN from collapsing to unknown when the
// related table holds rows with a null join column. Nested conditions keep
// three-valued logic: a related row for which NOT nested is unknown is not a
// violator, so every passes over it.
type SubSelectBuilder struct {
	Schema *ir.Schema
}

var _ compiler.RelationCompiler = (*SubSelectBuilder)(nil)

// NewSubSelectBuilder creates a builder resolving relations in schema.
func NewSubSelectBuilder(schema *ir.Schema) *SubSelectBuilder {
	return &SubSelectBuilder{Schema: schema}
}

// SubSelect builds the sub-select predicate for rel on model. The nested
// filter is compiled against the related model with compile.
//
// Panics with a *compiler.Fault when the relation or its target model is
// unknown.
func (b *SubSelectBuilder) SubSelect(rel filter.Relation, model *ir.Model, compile compiler.CompileFunc) queryir.ConditionTree {
	if model == nil {
		panic(unknownRelation("relation %q filtered without a model", rel.Field))
	}
	r, ok := model.Relation(rel.Field)
	if !ok {
		panic(unknownRelation("model %s has no relation %q", model.Name, rel.Field))
	}
	related, err := b.Schema.Model(r.Model)
	if err != nil {
		panic(unknownRelation("relation %s.%s: %v", model.Name, rel.Field, err))
	}

	var nested queryir.ConditionTree = queryir.NoCondition{}
	if rel.Nested != nil {
		nested = compile(rel.Nested, related)
	}

	negated := false
	switch rel.Condition {
	case filter.SomeRelated, filter.ToOneRelated:
	case filter.NoRelated:
		negated = true
	case filter.EveryRelated:
		nested = queryir.NewNot(nested)
		negated = true
	default:
		panic(unknownRelation("relation %s.%s: unknown condition %d", model.Name, rel.Field, rel.Condition))
	}

	to := queryir.NewColumn(related.Table, related.Column(r.To))
	where := queryir.NewAnd(nested, queryir.NewSingle(to.IsNotNull()))

	return queryir.NewSingle(queryir.SubSelect{
		Column:  queryir.NewColumn(model.Table, model.Column(r.From)),
		Negated: negated,
		Select: queryir.Select{
			Table:   related.Table,
			Columns: []string{to.Name},
			Where:   where,
		},
	})
}

func unknownRelation(format string, args ...any) *compiler.Fault {
	return &compiler.Fault{Code: compiler.FaultUnknownRelation, Message: fmt.Sprintf(format, args...)}
}

// SelectFor builds the query returning every column of model's rows
// matching where. Without explicit ordering, rows are ordered by primary
// key ascending so results are deterministic.
func SelectFor(model *ir.Model, where queryir.ConditionTree, orderBy []queryir.Ordering) queryir.Select {
	cols := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		cols[i] = model.Column(f.Name)
	}

	if len(orderBy) == 0 {
		orderBy = []queryir.Ordering{{
			Column: queryir.NewColumn(model.Table, model.PrimaryKeyColumn()),
			Order:  queryir.OrderAsc,
		}}
	}

	return queryir.Select{
		Table:   model.Table,
		Columns: cols,
		Where:   where,
		OrderBy: orderBy,
	}
}
