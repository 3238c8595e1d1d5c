// Package viz renders a project's dependency graph as a Mermaid flowchart
// and, for viz-html, wraps that flowchart plus each task's notes (rendered
// from markdown) in a minimal standalone HTML document.
package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/project"
)

// Mermaid renders st's task graph as a Mermaid flowchart TD document.
// Critical-path tasks (per sched) get a red fill, background tasks a
// dashed border, and flexible tasks a dotted border, applied via
// classDef/class directives rather than inline styling so the diagram
// stays readable as plain text too.
func Mermaid(st *project.State, sched *cpm.Schedule) string {
	tasks := st.List()
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	var b strings.Builder
	b.WriteString("flowchart TD\n")

	for _, t := range tasks {
		fmt.Fprintf(&b, "    %s[\"%s<br/>%s\"]\n", t.ID, escapeLabel(t.Name), durationLabel(t))
	}

	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			fmt.Fprintf(&b, "    %s --> %s\n", dep, t.ID)
		}
	}

	b.WriteString("\n")
	b.WriteString("    classDef critical fill:#cc241d,stroke:#9d0006,color:#fbf1c7;\n")
	b.WriteString("    classDef background stroke-dasharray: 6 3;\n")
	b.WriteString("    classDef flexible stroke-dasharray: 1 3;\n")

	if ids := idsWhere(tasks, func(t *project.Task) bool { return isCritical(sched, t.ID) }); len(ids) > 0 {
		fmt.Fprintf(&b, "    class %s critical;\n", strings.Join(ids, ","))
	}
	if ids := idsWhere(tasks, func(t *project.Task) bool { return t.Background }); len(ids) > 0 {
		fmt.Fprintf(&b, "    class %s background;\n", strings.Join(ids, ","))
	}
	if ids := idsWhere(tasks, func(t *project.Task) bool { return t.Flexible }); len(ids) > 0 {
		fmt.Fprintf(&b, "    class %s flexible;\n", strings.Join(ids, ","))
	}

	return b.String()
}

func durationLabel(t *project.Task) string {
	if t.DurationHours == float64(int64(t.DurationHours)) {
		return fmt.Sprintf("%dh", int64(t.DurationHours))
	}
	return fmt.Sprintf("%.1fh", t.DurationHours)
}

func isCritical(sched *cpm.Schedule, id string) bool {
	if sched == nil {
		return false
	}
	r, ok := sched.Results[id]
	return ok && r.DisplayCritical()
}

func idsWhere(tasks []*project.Task, pred func(*project.Task) bool) []string {
	var out []string
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t.ID)
		}
	}
	return out
}

// escapeLabel neutralizes characters that would otherwise break out of a
// Mermaid node label's quoted string.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
