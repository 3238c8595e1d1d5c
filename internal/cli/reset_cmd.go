package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset ID",
		Short: "Clear a task's status and actual timestamps back to not_started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer app.track("reset_task", map[string]any{"task_id": args[0]}, &err)()

			if err := app.LoadState(); err != nil {
				return err
			}
			if err := app.State.Reset(args[0]); err != nil {
				return err
			}
			if err := app.SaveState(); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s reset to not_started\n", args[0])
			return nil
		},
	}
}
