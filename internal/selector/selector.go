// Package selector derives the "what should I do" summaries a caller wants
// out of a scheduled project: the single next task, background tasks ready
// to kick off, a bucketed dopamine menu of ready flexible tasks, and the
// set of tasks at risk of missing their deadline.
package selector

import (
	"sort"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/dagr-project/dagr/internal/project"
)

// depsSatisfied ignores flexible dependencies entirely, mirroring
// cpm.Compute's base_ready rule and leveler.depsSatisfied: a flexible task
// is never required to be done before its dependents become ready.
func depsSatisfied(st *project.State, t *project.Task) bool {
	for _, dep := range t.DependsOn {
		d, err := st.Get(dep)
		if err != nil {
			return false
		}
		if d.Flexible {
			continue
		}
		if d.Status != project.StatusDone {
			return false
		}
	}
	return true
}

// NextTask returns the task the caller should work on next: any
// in-progress task takes priority (lowest slack wins a tie among several),
// otherwise the lowest-slack ready, non-flexible, non-done task.
func NextTask(st *project.State, sched *cpm.Schedule) (*project.Task, bool) {
	var inProgress []*project.Task
	var ready []*project.Task

	for _, t := range st.List() {
		if t.Flexible || t.Background || t.Status == project.StatusDone {
			continue
		}
		if t.Status == project.StatusInProgress {
			inProgress = append(inProgress, t)
			continue
		}
		if depsSatisfied(st, t) {
			ready = append(ready, t)
		}
	}

	if len(inProgress) > 0 {
		sortBySlack(inProgress, sched)
		return inProgress[0], true
	}
	if len(ready) == 0 {
		return nil, false
	}
	sortBySlack(ready, sched)
	return ready[0], true
}

func sortBySlack(tasks []*project.Task, sched *cpm.Schedule) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := sched.Results[tasks[i].ID], sched.Results[tasks[j].ID]
		if ri.Slack != rj.Slack {
			return ri.Slack < rj.Slack
		}
		if ri.ES != rj.ES {
			return ri.ES < rj.ES
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// KickoffBackground returns every background task that is ready (its
// dependencies are done) and hasn't been started yet.
func KickoffBackground(st *project.State) []*project.Task {
	var out []*project.Task
	for _, t := range st.List() {
		if !t.Background || t.Flexible || t.Status != project.StatusNotStarted {
			continue
		}
		if depsSatisfied(st, t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Menu is the dopamine menu: ready flexible tasks bucketed by an ordered,
// first-match-wins rule list.
type Menu struct {
	QuickWins       []*project.Task
	LowEnergy       []*project.Task
	Hyperfocus      []*project.Task
	OtherSideQuests []*project.Task
}

// bucketRules mirrors the ordered scoring-factor list pattern: each rule is
// tried in turn and the first match wins.
var bucketRules = []func(*project.Task) bool{
	func(t *project.Task) bool { return t.DurationHours < 1.0 || t.HasTag("quick") },
	func(t *project.Task) bool { return t.HasTag("low-energy") || t.HasTag("braindead") },
	func(t *project.Task) bool { return t.HasTag("hyperfocus") || t.HasTag("deep-work") },
}

// DopamineMenu buckets every ready flexible task.
func DopamineMenu(st *project.State) Menu {
	var menu Menu

	var ready []*project.Task
	for _, t := range st.List() {
		if !t.Flexible || t.Status == project.StatusDone {
			continue
		}
		if depsSatisfied(st, t) {
			ready = append(ready, t)
		}
	}

	for _, t := range ready {
		switch {
		case bucketRules[0](t):
			menu.QuickWins = append(menu.QuickWins, t)
		case bucketRules[1](t):
			menu.LowEnergy = append(menu.LowEnergy, t)
		case bucketRules[2](t):
			menu.Hyperfocus = append(menu.Hyperfocus, t)
		default:
			menu.OtherSideQuests = append(menu.OtherSideQuests, t)
		}
	}

	sortByDurationThenID(menu.QuickWins)
	sortByDurationThenID(menu.LowEnergy)
	sortByDurationThenID(menu.Hyperfocus)
	sortByDurationThenID(menu.OtherSideQuests)

	return menu
}

func sortByDurationThenID(tasks []*project.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].DurationHours != tasks[j].DurationHours {
			return tasks[i].DurationHours < tasks[j].DurationHours
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// AtRiskTasks returns every non-done task with a deadline whose
// resource-leveled projected finish exceeds that deadline (interpreted, as
// everywhere else, as end-of-working-day on the deadline's date).
func AtRiskTasks(st *project.State, lvl *leveler.Schedule) ([]*project.Task, error) {
	cal := st.Config.Calendar()

	latest := map[string]int64{}
	seen := map[string]bool{}
	for _, b := range lvl.Blocks {
		key := b.TaskID
		if !seen[key] || b.End.Unix() > latest[key] {
			latest[key] = b.End.Unix()
			seen[key] = true
		}
	}

	var out []*project.Task
	for _, t := range st.List() {
		if t.Status == project.StatusDone || t.Deadline == nil {
			continue
		}
		endUnix, ok := latest[t.ID]
		if !ok {
			continue
		}
		cutoff, err := cal.EndOfWorkingDay(*t.Deadline)
		if err != nil {
			return nil, err
		}
		if endUnix > cutoff.Unix() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
