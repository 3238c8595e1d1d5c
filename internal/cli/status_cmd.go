package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/dagr-project/dagr/internal/selector"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a project-wide overview: task counts and at-risk tasks",
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
			atRisk, err := selector.AtRiskTasks(app.State, lvl)
			if err != nil {
				return err
			}

			fmt.Fprint(app.Out, formatter.FormatStatus(app.State, sched, atRisk))
			return nil
		},
	}
}
