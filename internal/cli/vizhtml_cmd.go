package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/viz"
	"github.com/spf13/cobra"
)

func newVizHTMLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "viz-html",
		Short: "Emit a standalone HTML page visualizing the task graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadState(); err != nil {
				return err
			}

			sched, err := cpm.Compute(app.State, app.Now())
			if err != nil {
				return err
			}

			out, err := viz.HTML(app.State, sched)
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Out, out)
			return nil
		},
	}
}
