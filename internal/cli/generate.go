package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exampleWorkflow is the starter document written by the generate command.
// It validates cleanly against the built-in registry and demonstrates
// @{step.param} references.
const exampleWorkflow = `name: example-workflow
description: A starter workflow. Edit the steps to fit your pipeline.
steps:
  - name: greet
    type: dummy
    inputs:
      input: Hello, World!
  - name: echo
    type: dummy
    inputs:
      input: "The greeting was: @{greet.output}"
`

func newGenerateCommand(app *App) *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an example workflow file",
		Long: `Generate an example workflow file to get started.

The generated file validates cleanly and can be run immediately:

  doc-agent generate -o workflow.yml
  doc-agent run workflow.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := output
			if path == "" {
				path = app.Config.Generate.DefaultPath
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			if err := os.WriteFile(path, []byte(exampleWorkflow), 0o644); err != nil {
				return fmt.Errorf("failed to write workflow file: %w", err)
			}

			app.Printer.Printf("Generated an example workflow file at %s.\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (defaults to the configured path)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
