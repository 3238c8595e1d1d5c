package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/selector"
	"github.com/spf13/cobra"
)

func newNextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next recommended task plus the dopamine menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadState(); err != nil {
				return err
			}

			sched, err := cpm.Compute(app.State, app.Now())
			if err != nil {
				return err
			}

			next, _ := selector.NextTask(app.State, sched)
			background := selector.KickoffBackground(app.State)
			menu := selector.DopamineMenu(app.State)

			fmt.Fprint(app.Out, formatter.FormatNext(next, background))
			fmt.Fprint(app.Out, formatter.FormatDopamineMenu(menu))
			return nil
		},
	}
}
