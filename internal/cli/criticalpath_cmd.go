package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/spf13/cobra"
)

func newCriticalPathCmd(app *App) *cobra.Command {
	var sortMode string

	cmd := &cobra.Command{
		Use:   "critical-path",
		Short: "Show the critical-path tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortMode != "chrono" && sortMode != "chain" {
				return dagrerr.InvalidField("sort", "must be \"chrono\" or \"chain\"")
			}

			if err := app.LoadState(); err != nil {
				return err
			}

			sched, err := cpm.Compute(app.State, app.Now())
			if err != nil {
				return err
			}

			fmt.Fprint(app.Out, formatter.FormatCriticalPath(app.State, sched, sortMode))
			return nil
		},
	}

	cmd.Flags().StringVar(&sortMode, "sort", "chrono", "Sort order: chrono|chain")

	return cmd
}
