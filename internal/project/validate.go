package project

import (
	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/dagr-project/dagr/internal/graph"
)

// validateTaskFields checks the invariants that depend only on a single
// task's own fields (name, duration, status/actual-timestamp coherence,
// self-dependency).
func validateTaskFields(t *Task) error {
	if t.Name == "" {
		return dagrerr.InvalidField("name", "must not be empty")
	}
	if t.DurationHours < 0 {
		return dagrerr.InvalidField("duration_hours", "must be non-negative")
	}
	for _, dep := range t.DependsOn {
		if dep == t.ID {
			return dagrerr.InvalidField("depends_on", "task "+t.ID+" cannot depend on itself")
		}
	}

	switch t.Status {
	case StatusDone:
		if t.ActualFinish == nil {
			return dagrerr.InvalidField("actual_finish", "must be set when status is done")
		}
	case StatusNotStarted:
		if t.ActualStart != nil || t.ActualFinish != nil {
			return dagrerr.InvalidField("actual_start", "must be cleared when status is not_started")
		}
	}

	return nil
}

// validateAll checks the invariants that depend on the whole task set:
// dependency references exist, the graph is acyclic, and no task depends
// on itself even transitively.
func validateAll(_ Config, tasks map[string]*Task) error {
	for _, t := range tasks {
		if err := validateTaskFields(t); err != nil {
			return err
		}
	}

	nodes := make([]graph.Node, 0, len(tasks))
	for _, t := range tasks {
		nodes = append(nodes, graph.Node{ID: t.ID, DependsOn: append([]string{}, t.DependsOn...)})
	}
	g := graph.Build(nodes)
	return g.Validate()
}
