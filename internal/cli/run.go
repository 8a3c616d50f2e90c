package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doc-agent/internal/history"
	"doc-agent/internal/workflow"
)

func newRunCommand(app *App) *cobra.Command {
	var (
		inputFlags []string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "run <workflow.yml>",
		Short: "Validate and run a workflow file",
		Long: `Validate a workflow file and execute its steps in order.

Workflow input values are supplied with repeated --input flags:

  doc-agent run workflow.yml --input symbol=AAPL --input limit=10

With --dry-run the workflow executes with placeholder values and no external
calls, which is useful for previewing the run shape.

Exits 0 when the run succeeds, 1 otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read workflow file: %w", err)
			}

			if issues := workflow.Validate(data, app.Registry); len(issues) > 0 {
				app.Printer.Issues(path, issues)
				return NewExitError(1)
			}

			// Validate already proved the document parses.
			def, _ := workflow.Parse(data)

			runInputs, err := parseInputFlags(inputFlags)
			if err != nil {
				return err
			}

			eng := workflow.NewEngine(app.Registry, app.Logger)
			res, err := eng.Run(cmd.Context(), def, runInputs, workflow.RunOptions{DryRun: dryRun})
			if err != nil {
				return err
			}

			app.Printer.RunResult(res)

			if app.Config.History.Enabled && !dryRun {
				store := history.NewStore(app.Config.History.Dir)
				saved, err := store.Save(res)
				if err != nil {
					app.Logger.Warn("failed to persist run result", zap.Error(err))
				} else {
					app.Logger.Debug("run result persisted", zap.String("path", saved))
				}
			}

			if res.Status != workflow.RunSuccess {
				return NewExitError(1)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&inputFlags, "input", nil, "workflow input as name=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "execute with placeholder values and no external calls")

	return cmd
}

// parseInputFlags converts repeated name=value flags into a run input map.
func parseInputFlags(flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	inputs := make(map[string]any, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --input %q, expected name=value", f)
		}
		inputs[name] = value
	}
	return inputs, nil
}
