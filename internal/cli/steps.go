package cli

import (
	"github.com/spf13/cobra"
)

func newStepsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the available step types",
		Long: `List the registered step types with their input and output parameters.

Use these type names in the "type" field of workflow steps.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app.Printer.Catalog(app.Registry.Catalog())
			return nil
		},
	}
}
