package cli

import (
	"github.com/dagr-project/dagr/internal/project"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start ID",
		Short: "Mark a task in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetStatus(app, args[0], project.StatusInProgress)
		},
	}
}
