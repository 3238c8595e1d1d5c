package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/exportcsv"
	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	var remaining bool
	var csv bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the resource-leveled schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadState(); err != nil {
				return err
			}

			now := app.Now()
			sched, err := cpm.Compute(app.State, now)
			if err != nil {
				return err
			}
			lvl, err := leveler.Compute(app.State, sched, now)
			if err != nil {
				return err
			}

			if csv {
				return exportcsv.Write(app.Out, lvl, sched, app.State)
			}

			fmt.Fprint(app.Out, formatter.FormatSchedule(lvl, sched, app.State, remaining))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remaining, "remaining", false, "Skip blocks for tasks already done")
	cmd.Flags().BoolVar(&csv, "csv", false, "Emit CSV instead of a formatted table")

	return cmd
}
