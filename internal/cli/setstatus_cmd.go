package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/project"
	"github.com/spf13/cobra"
)

// runSetStatus loads state, applies a status transition, prints any
// non-aborting warnings, and saves — shared by start/done/set-status.
func runSetStatus(app *App, id string, status project.Status) (err error) {
	defer app.track("set_status", map[string]any{"task_id": id, "status": string(status)}, &err)()

	if err := app.LoadState(); err != nil {
		return err
	}

	warnings, err := app.State.SetStatus(id, status, app.Now())
	if err != nil {
		return err
	}
	if err := app.SaveState(); err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintf(app.Out, "warning: %s\n", w.Message)
	}
	fmt.Fprintf(app.Out, "%s set to %s\n", id, status)
	return nil
}

func newSetStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Set a task's lifecycle status directly (not_started|in_progress|done)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetStatus(app, args[0], project.Status(args[1]))
		},
	}
}
