package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/project"
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var start string
	var hoursPerDay float64
	var skipWeekends bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new project in the current directory",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer app.track("init_project", nil, &err)()

			if _, err := app.Store.Load(); err == nil {
				return fmt.Errorf("a project already exists; remove it first if you want to start over")
			}

			startDate := app.Now()
			if start != "" {
				d, err := parseFlagDate("start", start)
				if err != nil {
					return err
				}
				startDate = d
			}

			cfg := project.DefaultConfig(startDate)
			if cmd.Flags().Changed("hours-per-day") {
				cfg.HoursPerDay = hoursPerDay
			}
			if cmd.Flags().Changed("skip-weekends") {
				cfg.SkipWeekends = skipWeekends
			}

			app.State = project.New(cfg)
			if err := app.SaveState(); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Initialized project, starting %s\n", startDate.Format(flagDateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Project start date (YYYY-MM-DD); defaults to today")
	cmd.Flags().Float64Var(&hoursPerDay, "hours-per-day", 8.0, "Working hours per day")
	cmd.Flags().BoolVar(&skipWeekends, "skip-weekends", true, "Skip Saturday/Sunday")

	return cmd
}
