// Package leveler produces a realistic single-resource schedule: a
// chronologically ordered list of blocks across two parallel streams
// (attended and background), honoring dependency order, CPM slack as the
// dispatch priority, and in-progress/done task placement.
package leveler

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dagr-project/dagr/internal/calendar"
	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/dagr-project/dagr/internal/graph"
	"github.com/dagr-project/dagr/internal/project"
)

// Stream identifies which of the two parallel resource streams a Block
// belongs to.
type Stream string

const (
	StreamAttended   Stream = "attended"
	StreamBackground Stream = "background"
)

// Block is a single contiguous placement of a task on one calendar day
// within one stream. A task whose placement spans multiple working days
// is split into one Block per day segment. A done task's historical block
// is the exception: it covers its actual start to actual finish as one
// Block, however many days that spans.
type Block struct {
	TaskID string
	Stream Stream
	Start  time.Time
	End    time.Time
	Hours  float64
}

// Schedule is the full resource-leveled output.
type Schedule struct {
	Blocks              []Block
	ProjectedCompletion time.Time
}

// maxSpanDays bounds the per-task placement walk.
const maxSpanDays = 10000

func hoursDur(h float64) time.Duration { return time.Duration(h * float64(time.Hour)) }

// Compute runs the resource-leveling simulation described by the scheduler:
// it partitions tasks into done/background/attended sets, places
// in-progress tasks first in their stream at their actual_start, then
// repeatedly dispatches the lowest-slack ready task per stream until every
// non-flexible task has been placed.
func Compute(st *project.State, sched *cpm.Schedule, now time.Time) (*Schedule, error) {
	cal := st.Config.Calendar()
	tasks := st.List()
	byID := make(map[string]*project.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	g := graph.Build(st.GraphNodes())
	if err := g.Validate(); err != nil {
		return nil, err
	}

	anyInProgress := false
	for _, t := range tasks {
		if t.Status == project.StatusInProgress {
			anyInProgress = true
			break
		}
	}

	start, err := cal.ProjectStartInstant()
	if err != nil {
		return nil, err
	}
	attendedCursor := start
	backgroundCursor := start
	if anyInProgress {
		if now.After(attendedCursor) {
			attendedCursor = now
		}
		if now.After(backgroundCursor) {
			backgroundCursor = now
		}
	}

	var blocks []Block
	finish := make(map[string]time.Time, len(tasks))
	placed := make(map[string]bool, len(tasks))
	remaining := make(map[string]bool, len(tasks))

	for _, t := range tasks {
		if t.Flexible {
			continue // flexible tasks are never placed into a stream
		}
		if t.Status == project.StatusDone {
			blk, fin, ok := historicalBlock(t)
			if ok {
				blocks = append(blocks, blk)
			}
			finish[t.ID] = fin
			placed[t.ID] = true
			continue
		}
		remaining[t.ID] = true
	}

	// In-progress tasks are placed first in their stream, at actual_start,
	// for the full remaining duration_hours (same policy as the CPM pass).
	for _, t := range tasks {
		if t.Flexible || t.Status != project.StatusInProgress || t.ActualStart == nil {
			continue
		}
		stream := StreamAttended
		if t.Background {
			stream = StreamBackground
		}
		segs, end, err := placeSpan(cal, t.ID, stream, *t.ActualStart, t.DurationHours)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, segs...)
		finish[t.ID] = end
		placed[t.ID] = true
		delete(remaining, t.ID)
		if stream == StreamAttended && end.After(attendedCursor) {
			attendedCursor = end
		}
		if stream == StreamBackground && end.After(backgroundCursor) {
			backgroundCursor = end
		}
	}

	priority := func(id string) (slack, es float64) {
		r, ok := sched.Results[id]
		if !ok {
			return 0, 0
		}
		return r.Slack, r.ES
	}

	for len(remaining) > 0 {
		ready := make([]string, 0, len(remaining))
		for id := range remaining {
			if depsSatisfied(byID[id], finish, byID) {
				ready = append(ready, id)
			}
		}
		if len(ready) == 0 {
			return nil, dagrerr.InvalidField("schedule", "no ready task found; this indicates an undetected cycle")
		}

		var bgReady, fgReady []string
		for _, id := range ready {
			if byID[id].Background {
				bgReady = append(bgReady, id)
			} else {
				fgReady = append(fgReady, id)
			}
		}
		sortByPriority(bgReady, priority)
		sortByPriority(fgReady, priority)

		for _, id := range bgReady {
			t := byID[id]
			depEnd := maxDepFinish(t, finish, byID)
			floor, err := taskFloor(cal, t)
			if err != nil {
				return nil, err
			}
			placeStart := maxTime(backgroundCursor, depEnd, floor)
			segs, end, err := placeSpan(cal, id, StreamBackground, placeStart, t.DurationHours)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, segs...)
			finish[id] = end
			if end.After(backgroundCursor) {
				backgroundCursor = end
			}
			delete(remaining, id)
		}

		if len(fgReady) == 0 {
			continue
		}

		chosen := fgReady[0]
		t := byID[chosen]
		depEnd := maxDepFinish(t, finish, byID)
		floor, err := taskFloor(cal, t)
		if err != nil {
			return nil, err
		}
		placeStart := maxTime(attendedCursor, depEnd, floor)
		segs, end, err := placeSpan(cal, chosen, StreamAttended, placeStart, t.DurationHours)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, segs...)
		finish[chosen] = end
		attendedCursor = end
		delete(remaining, chosen)
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Start.Before(blocks[j].Start) })

	completion := start
	for _, t := range tasks {
		if t.Flexible {
			continue
		}
		if fin, ok := finish[t.ID]; ok && fin.After(completion) {
			completion = fin
		}
	}

	return &Schedule{Blocks: blocks, ProjectedCompletion: completion}, nil
}

// historicalBlock builds the single block recording a done task's actual
// placement, if it has both actual timestamps.
func historicalBlock(t *project.Task) (Block, time.Time, bool) {
	if t.ActualStart == nil || t.ActualFinish == nil {
		if t.ActualFinish != nil {
			return Block{}, *t.ActualFinish, false
		}
		return Block{}, time.Time{}, false
	}
	stream := StreamAttended
	if t.Background {
		stream = StreamBackground
	}
	return Block{
		TaskID: t.ID,
		Stream: stream,
		Start:  *t.ActualStart,
		End:    *t.ActualFinish,
		Hours:  t.ActualFinish.Sub(*t.ActualStart).Hours(),
	}, *t.ActualFinish, true
}

// depsSatisfied reports whether every non-flexible dependency of t has been
// placed. Flexible tasks are never placed into a stream (see the partition
// loop above), so a dependent ignores them entirely — same rule cpm.Compute
// applies when computing base_ready.
func depsSatisfied(t *project.Task, finish map[string]time.Time, byID map[string]*project.Task) bool {
	for _, dep := range t.DependsOn {
		if depTask := byID[dep]; depTask != nil && depTask.Flexible {
			continue
		}
		if _, ok := finish[dep]; !ok {
			return false
		}
	}
	return true
}

func maxDepFinish(t *project.Task, finish map[string]time.Time, byID map[string]*project.Task) time.Time {
	var max time.Time
	for _, dep := range t.DependsOn {
		if depTask := byID[dep]; depTask != nil && depTask.Flexible {
			continue
		}
		if f, ok := finish[dep]; ok && f.After(max) {
			max = f
		}
	}
	return max
}

func taskFloor(cal *calendar.Calendar, t *project.Task) (time.Time, error) {
	if t.ProposedStart == nil {
		return time.Time{}, nil
	}
	return cal.StartOfWorkingDayOrNext(*t.ProposedStart)
}

func maxTime(ts ...time.Time) time.Time {
	var max time.Time
	for _, t := range ts {
		if t.After(max) {
			max = t
		}
	}
	return max
}

// sortByPriority orders ids ascending by slack, then es, then id suffix —
// the "lowest slack first" dispatch rule.
func sortByPriority(ids []string, priority func(string) (slack, es float64)) {
	sort.SliceStable(ids, func(i, j int) bool {
		si, ei := priority(ids[i])
		sj, ej := priority(ids[j])
		if si != sj {
			return si < sj
		}
		if ei != ej {
			return ei < ej
		}
		ni, erri := strconv.Atoi(ids[i][strings.LastIndexByte(ids[i], '-')+1:])
		nj, errj := strconv.Atoi(ids[j][strings.LastIndexByte(ids[j], '-')+1:])
		if erri == nil && errj == nil && ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
}

// placeSpan walks forward from start, placing hours of working capacity
// into one Block per calendar-day segment, and returns the final end
// instant. A zero-hour task still yields a single zero-length block at its
// earliest working instant, so milestones remain visible in the schedule.
func placeSpan(cal *calendar.Calendar, id string, stream Stream, start time.Time, hours float64) ([]Block, time.Time, error) {
	instant, err := cal.NextWorkingInstant(start)
	if err != nil {
		return nil, time.Time{}, err
	}
	if hours <= 0 {
		return []Block{{TaskID: id, Stream: stream, Start: instant, End: instant, Hours: 0}}, instant, nil
	}

	var blocks []Block
	remaining := hours
	cur := instant

	for i := 0; i < maxSpanDays; i++ {
		segStart, err := cal.NextWorkingInstant(cur)
		if err != nil {
			return nil, time.Time{}, err
		}
		dayEnd := cal.DayEnd(segStart)
		available := dayEnd.Sub(segStart).Hours()
		if available <= 0 {
			cur = dayEnd
			continue
		}

		take := remaining
		if take > available {
			take = available
		}
		segEnd := segStart.Add(hoursDur(take))
		blocks = append(blocks, Block{TaskID: id, Stream: stream, Start: segStart, End: segEnd, Hours: take})
		remaining -= take

		if remaining <= 1e-9 {
			return blocks, segEnd, nil
		}
		cur = dayEnd
	}

	return nil, time.Time{}, dagrerr.UnschedulableHorizon()
}

// DayRollup is the per-calendar-date summary of a Schedule: total hours
// placed on each stream that day, plus whether any block that day belongs
// to a critical task and whether any background work happened.
type DayRollup struct {
	Date            time.Time
	AttendedHours   float64
	BackgroundHours float64
	Critical        bool
	HasBackground   bool
}

// DailyRollup groups blocks by calendar date and attaches CRIT/BG
// annotations sourced from the CPM schedule.
func DailyRollup(blocks []Block, sched *cpm.Schedule) []DayRollup {
	index := map[string]*DayRollup{}
	var order []string

	for _, b := range blocks {
		key := b.Start.Format("2006-01-02")
		r, ok := index[key]
		if !ok {
			y, m, d := b.Start.Date()
			r = &DayRollup{Date: time.Date(y, m, d, 0, 0, 0, 0, b.Start.Location())}
			index[key] = r
			order = append(order, key)
		}

		switch b.Stream {
		case StreamAttended:
			r.AttendedHours += b.Hours
		case StreamBackground:
			r.BackgroundHours += b.Hours
			r.HasBackground = true
		}

		if res, ok := sched.Results[b.TaskID]; ok && res.DisplayCritical() {
			r.Critical = true
		}
	}

	sort.Strings(order)
	out := make([]DayRollup, 0, len(order))
	for _, key := range order {
		out = append(out, *index[key])
	}
	return out
}
