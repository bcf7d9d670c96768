package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raymondSeger/prisma/internal/ir"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	Model   string
	OrderBy []string
}

// SQLResult is a rendered statement and its positional parameters.
type SQLResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql --model <model> <filter-file>",
		Short: "Render a filter as a SQLite SELECT",
		Long: `Render a filter document as a parameterized SQLite SELECT over the
model's table. Rows are ordered by the primary key unless --order-by is given.

Example:
  prismafilter sql --model User where.yaml
  prismafilter sql --model Post --order-by title:desc --order-by id where.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model the filter applies to (required)")
	cmd.Flags().StringArrayVar(&opts.OrderBy, "order-by", nil, "ordering as field[:asc|desc], repeatable")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runSQL(opts *SQLOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cf, err := compileFile(opts.RootOptions, formatter, opts.Model, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	sql, params, err := renderSelect(cf, opts.OrderBy, formatter)
	if err != nil {
		return err
	}

	encoded, err := ir.MarshalCanonical(params)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRender, "encode params", err)
	}

	var text strings.Builder
	fmt.Fprintln(&text, sql)
	fmt.Fprintf(&text, "params: %s\n", encoded)

	return formatter.Result(text.String(), SQLResult{SQL: sql, Params: params})
}
