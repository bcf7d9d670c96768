package compiler

import (
	"fmt"
	"log/slog"

	"github.com/raymondSeger/prisma/internal/filter"
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// CompileFunc compiles a filter against a model. Relation compilers use it
// to compile nested filters against the related model.
type CompileFunc func(f filter.Filter, model *ir.Model) queryir.ConditionTree

// RelationCompiler turns a relation filter into a sub-select predicate.
// The compiler does not inspect or transform the returned tree.
type RelationCompiler interface {
	SubSelect(rel filter.Relation, model *ir.Model, compile CompileFunc) queryir.ConditionTree
}

// Compiler compiles filters into condition trees.
//
// A Compiler holds no mutable state; one instance may be shared by any
// number of goroutines.
type Compiler struct {
	relations RelationCompiler
	logger    *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used to report faults. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Compiler. relations may be nil when no relation filters
// will be compiled; reaching one then faults.
func New(relations RelationCompiler, opts ...Option) *Compiler {
	c := &Compiler{
		relations: relations,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile dispatches on the filter variant:
//
//	And, Or   → right-associated fold (CompileAnd, CompileOr)
//	Not       → Not(CompileAnd(filters))
//	Scalar    → CompileScalar
//	Relation  → RelationCompiler.SubSelect
//	Bool      → NoCondition (true) / NegativeCondition (false)
//
// Any other variant is a schema mismatch with the filter's producer and
// panics with a *Fault after logging it.
//
// Recursion depth equals filter nesting depth; callers bound it before
// compiling (filter.Parser does).
func (c *Compiler) Compile(f filter.Filter, model *ir.Model) queryir.ConditionTree {
	switch node := f.(type) {
	case filter.And:
		return c.CompileAnd(node.Filters, model)
	case *filter.And:
		if node != nil {
			return c.CompileAnd(node.Filters, model)
		}
	case filter.Or:
		return c.CompileOr(node.Filters, model)
	case *filter.Or:
		if node != nil {
			return c.CompileOr(node.Filters, model)
		}
	case filter.Not:
		return c.CompileNot(node.Filters, model)
	case *filter.Not:
		if node != nil {
			return c.CompileNot(node.Filters, model)
		}
	case filter.ScalarFilter:
		return CompileScalar(node)
	case *filter.ScalarFilter:
		if node != nil {
			return CompileScalar(*node)
		}
	case filter.Relation:
		return c.compileRelation(node, model)
	case *filter.Relation:
		if node != nil {
			return c.compileRelation(*node, model)
		}
	case filter.Bool:
		return compileBool(node)
	case *filter.Bool:
		if node != nil {
			return compileBool(*node)
		}
	}

	fault := newFault(FaultUnknownFilter, "unsupported filter variant %s", describeVariant(f))
	c.logger.Error("filter schema mismatch",
		"code", fault.Code,
		"variant", describeVariant(f),
	)
	panic(fault)
}

// CompileAnd folds filters into a right-associated AND tree.
// An empty list is NoCondition; one filter is returned unwrapped.
func (c *Compiler) CompileAnd(filters []filter.Filter, model *ir.Model) queryir.ConditionTree {
	return c.fold(filters, model, queryir.NewAnd)
}

// CompileOr folds filters into a right-associated OR tree.
//
// An empty list is NoCondition, the same identity AND uses, so OR([])
// matches every row.
func (c *Compiler) CompileOr(filters []filter.Filter, model *ir.Model) queryir.ConditionTree {
	return c.fold(filters, model, queryir.NewOr)
}

// CompileNot negates the implicit conjunction of filters.
func (c *Compiler) CompileNot(filters []filter.Filter, model *ir.Model) queryir.ConditionTree {
	return queryir.NewNot(c.CompileAnd(filters, model))
}

// fold compiles the last filter as the seed, then walks the rest from last
// to first, combining each as the left operand of the accumulator:
//
//	[f1, f2, f3] → combine(f1, combine(f2, f3))
func (c *Compiler) fold(filters []filter.Filter, model *ir.Model, combine func(left, right queryir.ConditionTree) queryir.ConditionTree) queryir.ConditionTree {
	if len(filters) == 0 {
		return queryir.NoCondition{}
	}

	last := len(filters) - 1
	acc := c.Compile(filters[last], model)
	for i := last - 1; i >= 0; i-- {
		acc = combine(c.Compile(filters[i], model), acc)
	}
	return acc
}

func (c *Compiler) compileRelation(rel filter.Relation, model *ir.Model) queryir.ConditionTree {
	if c.relations == nil {
		panic(newFault(FaultMissingRelationCompiler, "relation filter on %q needs a RelationCompiler", rel.Field))
	}
	return c.relations.SubSelect(rel, model, c.Compile)
}

func compileBool(b filter.Bool) queryir.ConditionTree {
	if b {
		return queryir.NoCondition{}
	}
	return queryir.NegativeCondition{}
}

func describeVariant(f filter.Filter) string {
	if f == nil {
		return "<none>"
	}
	return fmt.Sprintf("%T", f)
}
