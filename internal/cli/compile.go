package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raymondSeger/prisma/internal/queryir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Model  string
	Output string // output file path
}

// CompilationResult is the JSON form of a compiled filter.
type CompilationResult struct {
	Model string         `json:"model"`
	Tree  map[string]any `json:"tree"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile --model <model> <filter-file>",
		Short: "Compile a filter to a condition tree",
		Long: `Compile a filter document to its condition tree.

The filter is parsed against the model's fields and relations, then compiled.
Use "-" to read the filter from stdin.

Example:
  prismafilter compile --model User where.yaml
  echo 'age: {gte: 18}' | prismafilter compile --model User -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model the filter applies to (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the JSON tree to this file")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cf, err := compileFile(opts.RootOptions, formatter, opts.Model, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result := CompilationResult{Model: cf.Model.Name, Tree: queryir.Describe(cf.Tree)}

	if opts.Output != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "encode tree", err)
		}
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0o644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "write output", err)
		}
		formatter.VerboseLog("Wrote tree to %s", opts.Output)
	}

	return formatter.Result(fmt.Sprintln(cf.Tree), result)
}
