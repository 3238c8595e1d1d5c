package formatter

import (
	"fmt"
	"strings"

	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/dagr-project/dagr/internal/project"
)

// FormatNext renders the `next` command: the single recommended attended
// task, plus any background tasks ready to kick off alongside it.
func FormatNext(next *project.Task, background []*project.Task) string {
	var b strings.Builder
	if next == nil {
		b.WriteString(Dim("nothing ready to work on.") + "\n")
	} else {
		fmt.Fprintf(&b, "%s %s  %s  %s\n", Header("next:"), Bold(next.ID), next.Name, Dim(FormatHours(next.DurationHours)))
	}
	if len(background) > 0 {
		b.WriteString(Header("kick off in the background:") + "\n")
		for _, t := range background {
			fmt.Fprintf(&b, "  %s  %s  %s\n", Bold(t.ID), t.Name, Dim(FormatHours(t.DurationHours)))
		}
	}
	return b.String()
}

// FormatDaily renders the `daily -n`/`today` per-day rollup table.
func FormatDaily(rollups []leveler.DayRollup) string {
	headers := []string{"DATE", "ATTENDED", "BACKGROUND", ""}
	var rows [][]string
	for _, r := range rollups {
		badges := make([]string, 0, 2)
		if r.Critical {
			badges = append(badges, CritBadge(true))
		}
		if r.HasBackground {
			badges = append(badges, BGBadge(true))
		}
		rows = append(rows, []string{
			HumanDate(r.Date),
			FormatHours(r.AttendedHours),
			FormatHours(r.BackgroundHours),
			strings.Join(badges, " "),
		})
	}
	return RenderTable(headers, rows)
}
