package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "dagr" command and registers every
// subcommand against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "dagr",
		Short: "Single-user task-graph scheduler and project planner",
	}

	root.AddCommand(
		newInitCmd(app),
		newAddCmd(app),
		newListCmd(app),
		newUpdateCmd(app),
		newDeleteCmd(app),
		newShowCmd(app),
		newStartCmd(app),
		newDoneCmd(app),
		newResetCmd(app),
		newSetStatusCmd(app),
		newImportCmd(app),
		newScheduleCmd(app),
		newCriticalPathCmd(app),
		newStatusCmd(app),
		newNextCmd(app),
		newTodayCmd(app),
		newDailyCmd(app),
		newCapacityCmd(app),
		newVizCmd(app),
		newVizHTMLCmd(app),
	)

	return root
}
