package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database string
	Model    string
	OrderBy  []string
}

// QueryResult holds the rows a filter matched.
type QueryResult struct {
	SQL   string           `json:"sql"`
	Count int              `json:"count"`
	Rows  []map[string]any `json:"rows"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query --db <path> --model <model> <filter-file>",
		Short: "Run a filter against a SQLite database",
		Long: `Run a filter document against a SQLite database and print the matching rows.

The database is created if needed and its tables are migrated to the schema
before the query runs.

Example:
  prismafilter query --db ./blog.db --model User where.yaml
  prismafilter query --db ./blog.db --model Post --order-by title where.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model the filter applies to (required)")
	cmd.Flags().StringArrayVar(&opts.OrderBy, "order-by", nil, "ordering as field[:asc|desc], repeatable")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runQuery(ctx context.Context, opts *QueryOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	cf, err := compileFile(opts.RootOptions, formatter, opts.Model, path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	sql, params, err := renderSelect(cf, opts.OrderBy, formatter)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, opts.Database, cf.Schema, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	opts.Logger().Debug("running query", "model", cf.Model.Name, "sql", sql, "params", len(params))
	rows, err := st.QueryModel(ctx, cf.Model, sql, params...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "run query", err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	var text strings.Builder
	for _, row := range rows {
		line, err := ir.MarshalCanonical(row)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "encode row", err)
		}
		fmt.Fprintf(&text, "%s\n", line)
	}
	fmt.Fprintf(&text, "%d row(s)\n", len(rows))

	return formatter.Result(text.String(), QueryResult{SQL: sql, Count: len(rows), Rows: rows})
}

// openStore opens the database and migrates it to the schema.
func openStore(ctx context.Context, path string, s *ir.Schema, formatter *OutputFormatter) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeDatabase, "open database", err)
	}
	if err := st.Migrate(ctx, s); err != nil {
		st.Close()
		return nil, formatter.Fail(ExitCommandError, ErrCodeDatabase, "migrate database", err)
	}
	formatter.VerboseLog("Opened %s", path)
	return st, nil
}
