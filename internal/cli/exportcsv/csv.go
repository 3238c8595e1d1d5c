// Package exportcsv writes a leveled schedule out as CSV, for the
// `schedule --csv` flag.
package exportcsv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/dagr-project/dagr/internal/project"
)

// Write emits one row per leveled block to w: id, name, stream, start, end,
// hours, critical.
func Write(w io.Writer, lvl *leveler.Schedule, sched *cpm.Schedule, st *project.State) error {
	byID := make(map[string]*project.Task, len(st.List()))
	for _, t := range st.List() {
		byID[t.ID] = t
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"ID", "Name", "Stream", "Start", "End", "Hours", "Critical"}); err != nil {
		return err
	}

	for _, b := range lvl.Blocks {
		name := b.TaskID
		if t, ok := byID[b.TaskID]; ok {
			name = t.Name
		}
		critical := "false"
		if res, ok := sched.Results[b.TaskID]; ok && res.DisplayCritical() {
			critical = "true"
		}

		row := []string{
			b.TaskID,
			name,
			string(b.Stream),
			b.Start.Format("2006-01-02T15:04:05"),
			b.End.Format("2006-01-02T15:04:05"),
			fmt.Sprintf("%g", b.Hours),
			critical,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}
