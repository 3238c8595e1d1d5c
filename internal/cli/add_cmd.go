package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/project"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var name string
	var duration float64
	var dependsOn []string
	var deadline, proposedStart, projectLabel, notes string
	var background, flexible bool
	var tags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new task",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer app.track("add_task", map[string]any{"name": name}, &err)()

			if err := app.LoadState(); err != nil {
				return err
			}

			input := project.TaskInput{
				Name:          &name,
				DurationHours: &duration,
				DependsOn:     dependsOn,
				Background:    &background,
				Flexible:      &flexible,
				Tags:          tags,
			}
			if projectLabel != "" {
				input.Project = &projectLabel
			}
			if notes != "" {
				input.Notes = &notes
			}
			if deadline != "" {
				d, err := parseFlagDate("deadline", deadline)
				if err != nil {
					return err
				}
				input.Deadline = &d
			}
			if proposedStart != "" {
				d, err := parseFlagDate("proposed-start", proposedStart)
				if err != nil {
					return err
				}
				input.ProposedStart = &d
			}

			t, err := app.State.Add(input)
			if err != nil {
				return err
			}
			if err := app.SaveState(); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Created %s %q\n", t.ID, t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Duration in hours")
	cmd.Flags().StringArrayVar(&dependsOn, "dep", nil, "Id of a task this task depends on (repeatable)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&proposedStart, "proposed-start", "", "Earliest start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&background, "bg", false, "Run unattended in the background stream")
	cmd.Flags().BoolVar(&flexible, "flexible", false, "Exempt from the critical path and attended capacity")
	cmd.Flags().StringVar(&projectLabel, "project", "", "Project label (filtering only)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
