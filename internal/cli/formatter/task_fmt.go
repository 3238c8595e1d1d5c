package formatter

import (
	"fmt"
	"strings"

	"github.com/dagr-project/dagr/internal/project"
)

// FormatTaskList renders the `list` command's task table.
func FormatTaskList(tasks []*project.Task) string {
	headers := []string{"ID", "NAME", "DUR", "STATUS", "DEPS", "FLAGS"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			FormatHours(t.DurationHours),
			StatusBadge(string(t.Status)),
			strings.Join(t.DependsOn, ","),
			taskFlags(t),
		})
	}
	return RenderTable(headers, rows)
}

func taskFlags(t *project.Task) string {
	var flags []string
	if t.Background {
		flags = append(flags, BGBadge(true))
	}
	if t.Flexible {
		flags = append(flags, StyleBlue.Render("FLEX"))
	}
	return strings.Join(flags, " ")
}

// FormatTaskShow renders the `show` command's single-task detail view.
func FormatTaskShow(t *project.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(t.ID), t.Name)
	fmt.Fprintf(&b, "%s %s    %s %s\n", Dim("duration:"), FormatHours(t.DurationHours), Dim("status:"), StatusBadge(string(t.Status)))
	if len(t.DependsOn) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim("depends on:"), strings.Join(t.DependsOn, ", "))
	}
	if t.Deadline != nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("deadline:"), HumanDate(*t.Deadline))
	}
	if t.ProposedStart != nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("proposed start:"), HumanDate(*t.ProposedStart))
	}
	if t.Project != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("project:"), t.Project)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim("tags:"), strings.Join(t.Tags, ", "))
	}
	if flags := taskFlags(t); flags != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("flags:"), flags)
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Notes)
	}
	return b.String()
}
