// Package cpm implements the Critical Path Method engine: the forward pass
// (earliest start/finish) and backward pass (latest start/finish, slack,
// critical-path membership), honoring deadlines, proposed starts,
// in-progress/done status, and the flexible marker.
package cpm

import (
	"math"
	"time"

	"github.com/dagr-project/dagr/internal/graph"
	"github.com/dagr-project/dagr/internal/project"
)

// Result is the per-task CPM output.
type Result struct {
	TaskID string

	ES, EF, LS, LF float64 // working-hour offsets from project start
	Slack          float64

	ESTime, EFTime, LSTime, LFTime time.Time

	// Critical is true when Slack <= 0 for a non-flexible task. Flexible
	// tasks are never critical (their Slack is +Inf).
	Critical bool

	// Done mirrors the task's status at compute time; callers that want
	// the spec's "—" display for finished tasks' slack should check this
	// rather than inferring it from Slack.
	Done bool

	// LateAgainstDeadline is true for a done task whose actual finish
	// breached its own deadline — the one case spec.md carves out where a
	// finished task is still flagged critical in the UI.
	LateAgainstDeadline bool
}

// DisplayCritical is the presentation-layer criticality check: done tasks
// are only flagged critical when they breached their own deadline, never
// from the raw backward-pass Slack<=0 formula.
func (r Result) DisplayCritical() bool {
	if r.Done {
		return r.LateAgainstDeadline
	}
	return r.Critical
}

// SlackDisplay renders Slack the way spec.md's presentation contract
// requires: "—" for done tasks, the formatted hour value otherwise.
func (r Result) SlackDisplay(format func(float64) string) string {
	if r.Done {
		return "—"
	}
	return format(r.Slack)
}

// Schedule is the full set of per-task CPM results, plus the project
// horizon (the latest non-flexible finish).
type Schedule struct {
	Results map[string]Result
	Horizon float64 // working hours from project start
}

// Compute runs the forward and backward CPM pass over every task in st.
func Compute(st *project.State, now time.Time) (*Schedule, error) {
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
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	es := map[string]float64{}
	ef := map[string]float64{}

	for _, id := range order {
		t := byID[id]

		baseReady := 0.0
		for _, dep := range t.DependsOn {
			depTask := byID[dep]
			if depTask != nil && depTask.Flexible {
				continue // dependents ignore flexible ancestors
			}
			if v := ef[dep]; v > baseReady {
				baseReady = v
			}
		}

		floor := 0.0
		if t.ProposedStart != nil {
			start, err := cal.StartOfWorkingDayOrNext(*t.ProposedStart)
			if err != nil {
				return nil, err
			}
			floor, err = cal.ElapsedHours(start)
			if err != nil {
				return nil, err
			}
		}

		taskES := math.Max(baseReady, floor)
		var taskEF float64

		switch {
		case t.Status == project.StatusDone && t.ActualFinish != nil:
			taskEF, err = cal.ElapsedHours(*t.ActualFinish)
			if err != nil {
				return nil, err
			}
			taskES = math.Min(taskES, taskEF)

		case t.Status == project.StatusInProgress && t.ActualStart != nil:
			taskES, err = cal.ElapsedHours(*t.ActualStart)
			if err != nil {
				return nil, err
			}
			taskEF = taskES + t.DurationHours

		default:
			taskEF = taskES + t.DurationHours
		}

		es[id] = taskES
		ef[id] = taskEF
	}

	horizon := 0.0
	for _, t := range tasks {
		if t.Flexible {
			continue
		}
		if ef[t.ID] > horizon {
			horizon = ef[t.ID]
		}
	}

	revOrder, err := g.ReverseTopologicalOrder()
	if err != nil {
		return nil, err
	}

	lf := map[string]float64{}
	ls := map[string]float64{}

	for _, id := range revOrder {
		t := byID[id]

		base := computeLFBase(g, byID, ls, id, horizon)

		deadlineCap := math.Inf(1)
		if t.Deadline != nil {
			endOfDay, err := cal.EndOfWorkingDay(*t.Deadline)
			if err != nil {
				return nil, err
			}
			deadlineCap, err = cal.ElapsedHours(endOfDay)
			if err != nil {
				return nil, err
			}
		}

		taskLF := math.Min(base, deadlineCap)
		taskLS := taskLF - t.DurationHours

		lf[id] = taskLF
		ls[id] = taskLS
	}

	results := make(map[string]Result, len(tasks))
	for _, t := range tasks {
		var r Result
		r.TaskID = t.ID
		r.Done = t.Status == project.StatusDone

		if t.Flexible {
			r.ES, r.EF = es[t.ID], ef[t.ID]
			r.LS, r.LF = ls[t.ID], lf[t.ID]
			r.Slack = math.Inf(1)
			r.Critical = false
		} else {
			r.ES, r.EF = es[t.ID], ef[t.ID]
			r.LS, r.LF = ls[t.ID], lf[t.ID]
			r.Slack = r.LS - r.ES
			r.Critical = r.Slack <= 0
		}

		if r.Done && t.Deadline != nil {
			endOfDay, err := cal.EndOfWorkingDay(*t.Deadline)
			if err == nil {
				if deadlineHrs, err2 := cal.ElapsedHours(endOfDay); err2 == nil {
					r.LateAgainstDeadline = r.EF > deadlineHrs
				}
			}
		}

		if r.ESTime, err = cal.HoursToInstant(r.ES); err != nil {
			return nil, err
		}
		if r.EFTime, err = cal.HoursToInstant(r.EF); err != nil {
			return nil, err
		}
		if !math.IsInf(r.LS, 0) {
			if r.LSTime, err = cal.HoursToInstant(r.LS); err != nil {
				return nil, err
			}
		}
		if !math.IsInf(r.LF, 0) {
			if r.LFTime, err = cal.HoursToInstant(r.LF); err != nil {
				return nil, err
			}
		}

		results[t.ID] = r
	}

	return &Schedule{Results: results, Horizon: horizon}, nil
}

// computeLFBase returns H if id has no non-flexible successors, else the
// minimum LS among its non-flexible successors.
func computeLFBase(g *graph.Graph, byID map[string]*project.Task, ls map[string]float64, id string, horizon float64) float64 {
	base := math.Inf(1)
	found := false
	for _, succ := range g.Successors(id) {
		st := byID[succ]
		if st != nil && st.Flexible {
			continue
		}
		found = true
		if v := ls[succ]; v < base {
			base = v
		}
	}
	if !found {
		return horizon
	}
	return base
}
