package formatter

import (
	"fmt"
	"strings"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/project"
)

// FormatStatus renders the `status` command's project-wide overview:
// task counts by lifecycle status, critical-path size, and any tasks at
// risk of missing their deadline.
func FormatStatus(st *project.State, sched *cpm.Schedule, atRisk []*project.Task) string {
	var notStarted, inProgress, done, critical int
	for _, t := range st.List() {
		switch t.Status {
		case project.StatusNotStarted:
			notStarted++
		case project.StatusInProgress:
			inProgress++
		case project.StatusDone:
			done++
		}
		if res, ok := sched.Results[t.ID]; ok && res.DisplayCritical() {
			critical++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d   %s %d   %s %d   %s %d\n",
		Dim("not started:"), notStarted,
		Dim("in progress:"), inProgress,
		Dim("done:"), done,
		StyleRed.Render("critical:"), critical)
	fmt.Fprintf(&b, "%s %s\n", Dim("horizon:"), FormatHours(sched.Horizon))

	if len(atRisk) > 0 {
		b.WriteString("\n" + Header("at risk of missing deadline:") + "\n")
		for _, t := range atRisk {
			fmt.Fprintf(&b, "  %s  %s  %s %s\n", Bold(t.ID), t.Name, Dim("deadline:"), HumanDate(*t.Deadline))
		}
	}

	return b.String()
}
