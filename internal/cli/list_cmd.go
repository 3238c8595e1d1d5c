package cli

import (
	"fmt"

	"github.com/dagr-project/dagr/internal/cli/formatter"
	"github.com/dagr-project/dagr/internal/project"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var projectFilter string
	var tagFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadState(); err != nil {
				return err
			}

			tasks := app.State.List()
			if projectFilter != "" {
				tasks = filterTasks(tasks, func(t *project.Task) bool { return t.Project == projectFilter })
			}
			if tagFilter != "" {
				tasks = filterTasks(tasks, func(t *project.Task) bool { return t.HasTag(tagFilter) })
			}

			if len(tasks) == 0 {
				fmt.Fprintln(app.Out, "No tasks found.")
				return nil
			}
			fmt.Fprint(app.Out, formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFilter, "project", "", "Only show tasks with this project label")
	cmd.Flags().StringVar(&tagFilter, "tag", "", "Only show tasks carrying this tag")

	return cmd
}

func filterTasks(tasks []*project.Task, keep func(*project.Task) bool) []*project.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
