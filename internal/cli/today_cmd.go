package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/spf13/cobra"
)

func newTodayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's slice of the schedule",
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

			rollups := leveler.DailyRollup(lvl.Blocks, sched)
			year, month, day := now.Date()
			for _, r := range rollups {
				ry, rm, rd := r.Date.Date()
				if ry == year && rm == month && rd == day {
					rollups = []leveler.DayRollup{r}
					fmt.Fprint(app.Out, formatter.FormatDaily(rollups))
					return nil
				}
			}

			fmt.Fprint(app.Out, formatter.FormatDaily(nil))
			return nil
		},
	}
}
