package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/spf13/cobra"
)

func newDailyCmd(app *App) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the per-day schedule rollup",
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
			if n > 0 && len(rollups) > n {
				rollups = rollups[:n]
			}

			fmt.Fprint(app.Out, formatter.FormatDaily(rollups))
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "n", "n", 0, "Limit output to the first N days (0 = all)")

	return cmd
}
