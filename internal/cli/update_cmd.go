package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/project"
	"github.com/spf13/cobra"
)

func newUpdateCmd(app *App) *cobra.Command {
	var name string
	var duration float64
	var dependsOn []string
	var deadline, proposedStart, projectLabel, notes string
	var clearDeadline, clearProposedStart bool
	var background, flexible bool
	var tags []string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update an existing task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer app.track("update_task", map[string]any{"task_id": args[0]}, &err)()

			if err := app.LoadState(); err != nil {
				return err
			}

			var input project.TaskInput
			if cmd.Flags().Changed("name") {
				input.Name = &name
			}
			if cmd.Flags().Changed("duration") {
				input.DurationHours = &duration
			}
			if cmd.Flags().Changed("dep") {
				input.DependsOn = dependsOn
			}
			if cmd.Flags().Changed("bg") {
				input.Background = &background
			}
			if cmd.Flags().Changed("flexible") {
				input.Flexible = &flexible
			}
			if cmd.Flags().Changed("project") {
				input.Project = &projectLabel
			}
			if cmd.Flags().Changed("tag") {
				input.Tags = tags
			}
			if cmd.Flags().Changed("notes") {
				input.Notes = &notes
			}
			if clearDeadline {
				input.ClearDeadline = true
			} else if deadline != "" {
				d, err := parseFlagDate("deadline", deadline)
				if err != nil {
					return err
				}
				input.Deadline = &d
			}
			if clearProposedStart {
				input.ClearProposed = true
			} else if proposedStart != "" {
				d, err := parseFlagDate("proposed-start", proposedStart)
				if err != nil {
					return err
				}
				input.ProposedStart = &d
			}

			t, err := app.State.Update(args[0], input)
			if err != nil {
				return err
			}
			if err := app.SaveState(); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Updated %s %q\n", t.ID, t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Duration in hours")
	cmd.Flags().StringArrayVar(&dependsOn, "dep", nil, "Id of a task this task depends on (repeatable; replaces the existing set)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "Remove the deadline")
	cmd.Flags().StringVar(&proposedStart, "proposed-start", "", "Earliest start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearProposedStart, "clear-proposed-start", false, "Remove the proposed start")
	cmd.Flags().BoolVar(&background, "bg", false, "Run unattended in the background stream")
	cmd.Flags().BoolVar(&flexible, "flexible", false, "Exempt from the critical path and attended capacity")
	cmd.Flags().StringVar(&projectLabel, "project", "", "Project label (filtering only)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable; replaces the existing set)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes")

	return cmd
}
