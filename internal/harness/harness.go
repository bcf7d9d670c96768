package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/raymondSeger/prisma/internal/compiler"
	"github.com/raymondSeger/prisma/internal/filter"
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/querysql"
	"github.com/raymondSeger/prisma/internal/schema"
	"github.com/raymondSeger/prisma/internal/store"
)

// Harness is the scenario execution engine. It owns one database and the
// pipeline stages every case runs through.
type Harness struct {
	store    *store.Store
	schema   *ir.Schema
	parser   *filter.Parser
	compiler *compiler.Compiler
	renderer *querysql.Renderer
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Load the CUE schema and migrate its tables
// 2. Insert setup rows
// 3. Run each case: parse, compile, render, query
// 4. Compare every case with its expectation
//
// An error is returned only when the scenario cannot be set up; failing
// cases are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, nil)
}

// RunContext is Run with a context and logger. A nil logger discards.
func RunContext(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	}

	s, err := schema.Load(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	h := &Harness{
		store:    st,
		schema:   s,
		parser:   filter.NewParser(s),
		compiler: compiler.New(querysql.NewSubSelectBuilder(s), compiler.WithLogger(logger)),
		renderer: querysql.NewRenderer(),
		logger:   logger,
	}

	if err := h.executeSetup(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		cr, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		result.AddCase(cr)

		if aerr := EvaluateCase(c, cr); aerr != nil {
			result.AddError(aerr.Error())
		}
	}

	return result, nil
}

// executeSetup inserts the setup rows in order.
func (h *Harness) executeSetup(ctx context.Context, steps []SetupStep) error {
	for i, step := range steps {
		m, err := h.schema.Model(step.Model)
		if err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
		for j, row := range step.Rows {
			if err := h.store.Insert(ctx, m, row); err != nil {
				return fmt.Errorf("setup[%d].rows[%d]: %w", i, j, err)
			}
		}
		h.logger.Debug("seeded rows", "model", m.Name, "count", len(step.Rows))
	}
	return nil
}

// runCase runs one case through the pipeline. A rejected filter is part of
// the outcome, not an error; errors are for cases that cannot run at all.
func (h *Harness) runCase(ctx context.Context, c Case) (CaseResult, error) {
	cr := CaseResult{Name: c.Name}

	m, err := h.schema.Model(c.Model)
	if err != nil {
		return cr, err
	}

	doc, err := yaml.Marshal(&c.Where)
	if err != nil {
		return cr, fmt.Errorf("encode where: %w", err)
	}
	f, err := h.parser.Parse(doc, c.Model)
	if err != nil {
		cr.Error = err.Error()
		return cr, nil
	}

	ordering, err := querysql.ParseOrderBy(m, c.OrderBy)
	if err != nil {
		return cr, err
	}

	tree := h.compiler.Compile(f, m)
	sql, params, err := h.renderer.Select(querysql.SelectFor(m, tree, ordering))
	if err != nil {
		return cr, fmt.Errorf("render: %w", err)
	}
	if params == nil {
		params = []any{}
	}
	cr.SQL, cr.Params = sql, params

	rows, err := h.store.QueryModel(ctx, m, sql, params...)
	if err != nil {
		return cr, fmt.Errorf("query: %w", err)
	}
	cr.IDs = make([]any, 0, len(rows))
	for _, row := range rows {
		cr.IDs = append(cr.IDs, row[m.PrimaryKey])
	}

	h.logger.Debug("ran case", "case", c.Name, "sql", sql, "rows", len(rows))
	return cr, nil
}
