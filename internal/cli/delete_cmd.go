package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task, scrubbing it from other tasks' dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer app.track("delete_task", map[string]any{"task_id": args[0]}, &err)()

			if err := app.LoadState(); err != nil {
				return err
			}
			if err := app.State.Delete(args[0]); err != nil {
				return err
			}
			if err := app.SaveState(); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Deleted %s\n", args[0])
			return nil
		},
	}
}
