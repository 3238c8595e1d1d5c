// Package project owns the in-memory Project State aggregate: the project
// configuration and task set, together with the integrity operations that
// must uphold the data model's invariants before handing data to the
// scheduling engines. State mutations are synchronous and atomic from the
// caller's view — a mutation followed by a query always observes it.
package project

import "time"

// Status is a task's lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Task is a single schedulable unit of work.
type Task struct {
	ID            string
	Name          string
	DurationHours float64
	DependsOn     []string // task ids; order is not meaningful, kept sorted for determinism
	Deadline      *time.Time
	ProposedStart *time.Time
	Background    bool
	Flexible      bool
	Project       string
	Tags          []string
	Notes         string
	Status        Status
	ActualStart   *time.Time
	ActualFinish  *time.Time
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// DependsOnSet returns DependsOn as a lookup set.
func (t *Task) DependsOnSet() map[string]bool {
	set := make(map[string]bool, len(t.DependsOn))
	for _, d := range t.DependsOn {
		set[d] = true
	}
	return set
}

// clone returns a deep-enough copy of t for safe external handoff (slices
// and pointer fields are copied so callers can't mutate State through a
// returned Task).
func (t *Task) clone() *Task {
	c := *t
	c.DependsOn = append([]string{}, t.DependsOn...)
	c.Tags = append([]string{}, t.Tags...)
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.ProposedStart != nil {
		d := *t.ProposedStart
		c.ProposedStart = &d
	}
	if t.ActualStart != nil {
		d := *t.ActualStart
		c.ActualStart = &d
	}
	if t.ActualFinish != nil {
		d := *t.ActualFinish
		c.ActualFinish = &d
	}
	return &c
}
