package cli

import (
	"fmt"
	"strconv"

	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/spf13/cobra"
)

func newCapacityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "capacity DATE HOURS",
		Short: "Override the working hours available on a given date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer app.track("set_capacity_override", map[string]any{"date": args[0]}, &err)()

			date, err := parseFlagDate("date", args[0])
			if err != nil {
				return err
			}

			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return dagrerr.InvalidField("hours", "must be a number")
			}

			if err := app.LoadState(); err != nil {
				return err
			}
			if err := app.State.SetCapacityOverride(date, hours); err != nil {
				return err
			}
			if err := app.SaveState(); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Capacity for %s set to %gh\n", args[0], hours)
			return nil
		},
	}
}
