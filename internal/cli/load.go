package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Database string
	Model    string
}

// LoadResult reports how many rows were inserted.
type LoadResult struct {
	Model    string `json:"model"`
	Table    string `json:"table"`
	Inserted int    `json:"inserted"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load --db <path> --model <model> <rows-file>",
		Short: "Insert rows into a SQLite database",
		Long: `Insert rows from a YAML or JSON list into the model's table.

Each row maps field names to values. Datetimes may be RFC 3339 timestamps or
plain dates, uuids are strings and JSON fields take any nested value.

Example:
  prismafilter load --db ./blog.db --model User users.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model the rows belong to (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runLoad(ctx context.Context, opts *LoadOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchema(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	m, err := resolveModel(s, opts.Model, formatter)
	if err != nil {
		return err
	}

	data, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeReadFailed, "read rows", err)
	}
	var rows []map[string]any
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidRows, "decode rows", err)
	}

	st, err := openStore(ctx, opts.Database, s, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	for i, row := range rows {
		if err := st.Insert(ctx, m, row); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeInvalidRows, fmt.Sprintf("insert row %d", i), err)
		}
	}
	opts.Logger().Debug("loaded rows", "model", m.Name, "table", m.Table, "count", len(rows))

	result := LoadResult{Model: m.Name, Table: m.Table, Inserted: len(rows)}
	return formatter.Result(fmt.Sprintf("✓ Loaded %d row(s) into %s\n", len(rows), m.Table), result)
}
