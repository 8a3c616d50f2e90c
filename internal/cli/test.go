package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"doc-agent/internal/workflow"
)

// validateConcurrency bounds the number of workflow files validated at once.
const validateConcurrency = 4

func newTestCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test <workflow.yml>...",
		Short: "Validate workflow files without running them",
		Long: `Validate one or more workflow files.

Validation parses the YAML, checks the structural rules (step types, required
inputs, reserved names), and performs a dry-run execution with placeholder
values to catch bad @{step.param} references. Nothing external is invoked.

Exits 0 when all files pass, 1 otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issues := make([][]workflow.Issue, len(args))
			readErrs := make([]error, len(args))

			var g errgroup.Group
			g.SetLimit(validateConcurrency)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					data, err := os.ReadFile(path)
					if err != nil {
						readErrs[i] = err
						return nil
					}
					issues[i] = workflow.Validate(data, app.Registry)
					return nil
				})
			}
			// Workers never return errors; findings land in the slices.
			_ = g.Wait()

			failed := false
			for i, path := range args {
				if readErrs[i] != nil {
					app.Printer.Printf("✗ %s: %v\n", path, readErrs[i])
					failed = true
					continue
				}
				app.Printer.Issues(path, issues[i])
				if len(issues[i]) > 0 {
					failed = true
				}
			}

			if failed {
				return NewExitError(1)
			}
			if len(args) > 1 {
				app.Printer.Printf("All %d workflow files passed validation.\n", len(args))
			}
			return nil
		},
	}
}
