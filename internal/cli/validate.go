package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raymondSeger/prisma/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool             `json:"valid"`
	Models []schema.Summary `json:"models"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the model schema",
		Long: `Load the CUE model files under --schema and check them.

Every model must match #Model, enum fields must list their values and
relations must name an existing model and existing join fields.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := loadSchema(opts, formatter)
	if err != nil {
		return err
	}

	summaries := schema.Summarize(s)
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Models: summaries})
	}

	var text strings.Builder
	fmt.Fprintf(&text, "✓ Schema valid: %d model(s)\n", len(summaries))
	for _, sum := range summaries {
		fmt.Fprintf(&text, "\n%s (%s)\n", sum.Model, sum.Table)
		fmt.Fprintf(&text, "  fields: %s\n", strings.Join(sum.Fields, ", "))
		if len(sum.Relations) > 0 {
			fmt.Fprintf(&text, "  relations: %s\n", strings.Join(sum.Relations, ", "))
		}
	}
	return formatter.Result(text.String(), nil)
}
