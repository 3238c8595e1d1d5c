package cli

import (
	"github.com/dagr-project/dagr/internal/project"
	"github.com/spf13/cobra"
)

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetStatus(app, args[0], project.StatusDone)
		},
	}
}
