package formatter

import (
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/dagr-project/dagr/internal/project"
)

// FormatSchedule renders the `schedule` command's leveled block table.
// When remainingOnly is set, blocks for tasks already done are skipped
// (the --remaining flag).
func FormatSchedule(lvl *leveler.Schedule, sched *cpm.Schedule, st *project.State, remainingOnly bool) string {
	byID := make(map[string]*project.Task, len(st.List()))
	for _, t := range st.List() {
		byID[t.ID] = t
	}

	headers := []string{"START", "END", "TASK", "STREAM", "HOURS", ""}
	var rows [][]string
	for _, b := range lvl.Blocks {
		t := byID[b.TaskID]
		if remainingOnly && t != nil && t.Status == project.StatusDone {
			continue
		}

		badge := ""
		if res, ok := sched.Results[b.TaskID]; ok && res.DisplayCritical() {
			badge = CritBadge(true)
		}
		stream := string(b.Stream)
		if b.Stream == leveler.StreamBackground {
			stream = BGBadge(true)
		}

		name := b.TaskID
		if t != nil {
			name = t.Name
		}

		rows = append(rows, []string{
			HumanDatetime(b.Start),
			HumanDatetime(b.End),
			name,
			stream,
			FormatHours(b.Hours),
			badge,
		})
	}

	out := RenderTable(headers, rows)
	out += "\n" + Dim("projected completion: ") + HumanDatetime(lvl.ProjectedCompletion) + "\n"
	return out
}
