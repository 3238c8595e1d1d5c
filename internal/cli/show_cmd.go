package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a single task's detail view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadState(); err != nil {
				return err
			}
			t, err := app.State.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, formatter.FormatTaskShow(t))
			return nil
		},
	}
}
