package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/raymondSeger/prisma/internal/compiler"
	"github.com/raymondSeger/prisma/internal/filter"
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
	"github.com/raymondSeger/prisma/internal/querysql"
	"github.com/raymondSeger/prisma/internal/schema"
)

// Error codes reported by commands. Schema load failures keep the code the
// schema package assigned (E003-E006, E200-E203).
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeReadFailed    = "E007" // Input file unreadable
	ErrCodeInvalidFilter = "E301" // Malformed filter document
	ErrCodeTooDeep       = "E302" // Filter nesting over --max-depth
	ErrCodeRender        = "E303" // Condition tree could not be rendered
	ErrCodeDatabase      = "E304" // Database open, migrate or query failed
	ErrCodeUnknownModel  = "E305" // --model names no model
	ErrCodeInvalidOrder  = "E306" // Malformed --order-by
	ErrCodeInvalidRows   = "E307" // Malformed rows document
)

// compiledFilter is a filter document compiled against one model.
type compiledFilter struct {
	Schema *ir.Schema
	Model  *ir.Model
	Tree   queryir.ConditionTree
}

// loadSchema loads the schema directory named by --schema.
func loadSchema(opts *RootOptions, formatter *OutputFormatter) (*ir.Schema, error) {
	s, err := schema.Load(opts.Schema)
	if err != nil {
		var loadErr *schema.LoadError
		if errors.As(err, &loadErr) {
			msg := loadErr.Message
			if loadErr.Pos.IsValid() {
				msg = fmt.Sprintf("%s:%d:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), msg)
			}
			_ = formatter.Error(loadErr.Code, msg, nil)
			return nil, WrapExitError(ExitCommandError, "load schema", err)
		}
		return nil, formatter.Fail(ExitCommandError, ErrCodeGeneric, "load schema", err)
	}
	formatter.VerboseLog("Loaded %d model(s) from %s", len(s.Models), opts.Schema)
	return s, nil
}

// resolveModel looks up the model named by --model.
func resolveModel(s *ir.Schema, name string, formatter *OutputFormatter) (*ir.Model, error) {
	m, err := s.Model(name)
	if err != nil {
		return nil, formatter.Fail(ExitFailure, ErrCodeUnknownModel, "resolve model", err)
	}
	return m, nil
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// compileFile loads the schema, parses the filter document at path and
// compiles it for model. Compiler faults are not recovered here: they mean
// the parser and compiler disagree and the process should crash.
func compileFile(opts *RootOptions, formatter *OutputFormatter, model, path string, stdin io.Reader) (*compiledFilter, error) {
	s, err := loadSchema(opts, formatter)
	if err != nil {
		return nil, err
	}
	m, err := resolveModel(s, model, formatter)
	if err != nil {
		return nil, err
	}

	data, err := readInput(path, stdin)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeReadFailed, "read filter", err)
	}

	p := &filter.Parser{Schema: s, MaxDepth: opts.MaxDepth}
	f, err := p.Parse(data, model)
	if err != nil {
		if errors.Is(err, filter.ErrTooDeep) {
			return nil, formatter.Fail(ExitFailure, ErrCodeTooDeep, "parse filter", err)
		}
		return nil, formatter.Fail(ExitFailure, ErrCodeInvalidFilter, "parse filter", err)
	}

	c := compiler.New(querysql.NewSubSelectBuilder(s), compiler.WithLogger(opts.Logger()))
	tree := c.Compile(f, m)
	formatter.VerboseLog("Compiled filter for %s: %s", model, tree)

	return &compiledFilter{Schema: s, Model: m, Tree: tree}, nil
}

// renderSelect builds the full SELECT for a compiled filter.
func renderSelect(cf *compiledFilter, orderBy []string, formatter *OutputFormatter) (string, []any, error) {
	ordering, err := querysql.ParseOrderBy(cf.Model, orderBy)
	if err != nil {
		return "", nil, formatter.Fail(ExitFailure, ErrCodeInvalidOrder, "parse --order-by", err)
	}
	sql, params, err := querysql.NewRenderer().Select(querysql.SelectFor(cf.Model, cf.Tree, ordering))
	if err != nil {
		return "", nil, formatter.Fail(ExitCommandError, ErrCodeRender, "render query", err)
	}
	if params == nil {
		params = []any{}
	}
	return sql, params, nil
}
