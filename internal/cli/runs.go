package cli

import (
	"github.com/spf13/cobra"

	"doc-agent/internal/history"
)

func newRunsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List persisted workflow runs",
		Long: `List workflow runs stored in the history directory, newest first.

Runs are persisted by "doc-agent run" unless history is disabled in the
configuration.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store := history.NewStore(app.Config.History.Dir)
			entries, err := store.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				app.Printer.Printf("No runs recorded yet.\n")
				return nil
			}
			for _, e := range entries {
				app.Printer.Printf("%s  %-10s %-24s %s\n",
					e.StartedAt.Format("2006-01-02 15:04:05"), e.Status, e.WorkflowName, e.ID)
			}
			return nil
		},
	}
}
