package project

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/dagr-project/dagr/internal/graph"
)

// Warning is a non-aborting diagnostic returned alongside a successful
// mutation, per the error-handling design's warning/error split.
type Warning struct {
	Code    string
	Message string
}

// State is the in-memory Project State aggregate: configuration plus task
// set, with the integrity operations that keep §3's invariants intact.
type State struct {
	Config Config
	tasks  map[string]*Task
	order  []string // insertion order, for stable listing
	nextID int
}

// New returns an initialized, empty State.
func New(cfg Config) *State {
	return &State{
		Config: cfg,
		tasks:  map[string]*Task{},
		nextID: 1,
	}
}

// Restore reconstructs a State directly from a fully specified task set —
// used by the persistence layer to load a previously saved project without
// re-deriving status and actual-timestamp fields through the mutation API.
// The task set is validated as a whole before being accepted; tasks are
// kept in the order given.
func Restore(cfg Config, tasks []*Task) (*State, error) {
	trial := make(map[string]*Task, len(tasks))
	order := make([]string, 0, len(tasks))
	maxSeen := 0
	for _, t := range tasks {
		c := t.clone()
		trial[c.ID] = c
		order = append(order, c.ID)
		if n, ok := parseTaskSuffix(c.ID); ok && n > maxSeen {
			maxSeen = n
		}
	}

	if err := validateAll(cfg, trial); err != nil {
		return nil, err
	}

	return &State{
		Config: cfg,
		tasks:  trial,
		order:  order,
		nextID: maxSeen + 1,
	}, nil
}

// TaskInput carries the fields a caller supplies when creating or updating
// a task; nil pointers mean "leave unset" on create and "leave unchanged"
// on update.
type TaskInput struct {
	Name          *string
	DurationHours *float64
	DependsOn     []string
	Deadline      *time.Time
	ClearDeadline bool
	ProposedStart *time.Time
	ClearProposed bool
	Background    *bool
	Flexible      *bool
	Project       *string
	Tags          []string
	Notes         *string
}

// Get returns a defensive copy of the task with the given id.
func (s *State) Get(id string) (*Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, dagrerr.UnknownTask(id)
	}
	return t.clone(), nil
}

// Exists reports whether id names a task already in the state.
func (s *State) Exists(id string) bool {
	_, ok := s.tasks[id]
	return ok
}

// ReserveID consumes and returns the next sequential id without creating a
// task, so a caller building several related tasks at once (bulk import)
// can resolve name-based references to a concrete id before any of them
// are committed.
func (s *State) ReserveID() string {
	return s.allocateID()
}

// List returns defensive copies of every task, in the order they were
// created.
func (s *State) List() []*Task {
	out := make([]*Task, 0, len(s.tasks))
	for _, id := range s.order {
		out = append(out, s.tasks[id].clone())
	}
	return out
}

// GraphNodes returns the dependency-graph view of the current task set.
func (s *State) GraphNodes() []graph.Node {
	nodes := make([]graph.Node, 0, len(s.tasks))
	for _, id := range s.order {
		t := s.tasks[id]
		nodes = append(nodes, graph.Node{ID: t.ID, DependsOn: append([]string{}, t.DependsOn...)})
	}
	return nodes
}

// allocateID returns the next "T-<n>" id and advances the sequence. IDs
// are never reused, even after delete, so they stay stable across
// mutations.
func (s *State) allocateID() string {
	id := fmt.Sprintf("T-%d", s.nextID)
	s.nextID++
	return id
}

// AbsorbID advances the id sequence past an explicitly supplied id (used
// by bulk import when the payload names ids directly), so subsequently
// auto-assigned ids never collide with it.
func (s *State) AbsorbID(id string) {
	if n, ok := parseTaskSuffix(id); ok && n >= s.nextID {
		s.nextID = n + 1
	}
}

func parseTaskSuffix(id string) (int, bool) {
	if !strings.HasPrefix(id, "T-") {
		return 0, false
	}
	n, err := strconv.Atoi(id[2:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Add creates a new task from input and commits it only if the resulting
// state validates. Returns a copy of the created task.
func (s *State) Add(input TaskInput) (*Task, error) {
	name := ""
	if input.Name != nil {
		name = *input.Name
	}
	dur := 0.0
	if input.DurationHours != nil {
		dur = *input.DurationHours
	}

	t := &Task{
		ID:            s.peekNextID(),
		Name:          name,
		DurationHours: dur,
		DependsOn:     normalizeIDs(input.DependsOn),
		Deadline:      input.Deadline,
		ProposedStart: input.ProposedStart,
		Background:    boolOr(input.Background, false),
		Flexible:      boolOr(input.Flexible, false),
		Project:       strOr(input.Project, ""),
		Tags:          normalizeTags(input.Tags),
		Notes:         strOr(input.Notes, ""),
		Status:        StatusNotStarted,
	}

	if err := validateTaskFields(t); err != nil {
		return nil, err
	}

	trial := s.snapshotTasks()
	trial[t.ID] = t
	if err := validateAll(s.Config, trial); err != nil {
		return nil, err
	}

	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	s.nextID++
	return t.clone(), nil
}

// peekNextID previews the id Add will assign, without consuming it.
func (s *State) peekNextID() string {
	return fmt.Sprintf("T-%d", s.nextID)
}

// AddWithID creates a task with an explicit id (used by bulk import when
// the payload names an id that doesn't yet exist). It fails if the id is
// already taken or malformed.
func (s *State) AddWithID(id string, input TaskInput) (*Task, error) {
	if _, ok := parseTaskSuffix(id); !ok {
		return nil, dagrerr.InvalidField("id", "must be of the form T-<n>")
	}
	if _, exists := s.tasks[id]; exists {
		return nil, dagrerr.InvalidField("id", "task "+id+" already exists")
	}

	name := ""
	if input.Name != nil {
		name = *input.Name
	}
	dur := 0.0
	if input.DurationHours != nil {
		dur = *input.DurationHours
	}

	t := &Task{
		ID:            id,
		Name:          name,
		DurationHours: dur,
		DependsOn:     normalizeIDs(input.DependsOn),
		Deadline:      input.Deadline,
		ProposedStart: input.ProposedStart,
		Background:    boolOr(input.Background, false),
		Flexible:      boolOr(input.Flexible, false),
		Project:       strOr(input.Project, ""),
		Tags:          normalizeTags(input.Tags),
		Notes:         strOr(input.Notes, ""),
		Status:        StatusNotStarted,
	}

	if err := validateTaskFields(t); err != nil {
		return nil, err
	}

	trial := s.snapshotTasks()
	trial[t.ID] = t
	if err := validateAll(s.Config, trial); err != nil {
		return nil, err
	}

	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	s.AbsorbID(t.ID)
	return t.clone(), nil
}

// Update applies a partial edit to an existing task, validating the
// resulting state before committing.
func (s *State) Update(id string, input TaskInput) (*Task, error) {
	existing, ok := s.tasks[id]
	if !ok {
		return nil, dagrerr.UnknownTask(id)
	}

	updated := existing.clone()
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.DurationHours != nil {
		updated.DurationHours = *input.DurationHours
	}
	if input.DependsOn != nil {
		updated.DependsOn = normalizeIDs(input.DependsOn)
	}
	if input.Deadline != nil {
		updated.Deadline = input.Deadline
	} else if input.ClearDeadline {
		updated.Deadline = nil
	}
	if input.ProposedStart != nil {
		updated.ProposedStart = input.ProposedStart
	} else if input.ClearProposed {
		updated.ProposedStart = nil
	}
	if input.Background != nil {
		updated.Background = *input.Background
	}
	if input.Flexible != nil {
		updated.Flexible = *input.Flexible
	}
	if input.Project != nil {
		updated.Project = *input.Project
	}
	if input.Tags != nil {
		updated.Tags = normalizeTags(input.Tags)
	}
	if input.Notes != nil {
		updated.Notes = *input.Notes
	}

	if err := validateTaskFields(updated); err != nil {
		return nil, err
	}

	trial := s.snapshotTasks()
	trial[id] = updated
	if err := validateAll(s.Config, trial); err != nil {
		return nil, err
	}

	s.tasks[id] = updated
	return updated.clone(), nil
}

// Delete removes a task and scrubs its id from every other task's
// depends_on set.
func (s *State) Delete(id string) error {
	if _, ok := s.tasks[id]; !ok {
		return dagrerr.UnknownTask(id)
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for _, t := range s.tasks {
		t.DependsOn = removeID(t.DependsOn, id)
	}
	return nil
}

// SetStatus performs a status transition, enforcing structural invariants
// and returning non-aborting warnings for semantically odd but valid
// transitions (e.g. marking done without ever starting).
func (s *State) SetStatus(id string, status Status, now time.Time) ([]Warning, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, dagrerr.UnknownTask(id)
	}

	var warnings []Warning

	switch status {
	case StatusNotStarted:
		t.Status = StatusNotStarted
		t.ActualStart = nil
		t.ActualFinish = nil

	case StatusInProgress:
		if t.Status == StatusDone {
			return nil, dagrerr.StatusTransition(string(t.Status), string(status), "task is already done; reset it first")
		}
		t.Status = StatusInProgress
		if t.ActualStart == nil {
			ts := now
			t.ActualStart = &ts
		}
		t.ActualFinish = nil

	case StatusDone:
		if t.ActualStart == nil {
			warnings = append(warnings, Warning{
				Code:    "NO_START_RECORDED",
				Message: "task " + id + " marked done without a recorded start time; actual duration is unavailable",
			})
		}
		for _, dep := range t.DependsOn {
			if d, ok := s.tasks[dep]; ok && d.Status != StatusDone {
				warnings = append(warnings, Warning{
					Code:    "DEPENDENCY_NOT_DONE",
					Message: "task " + id + " marked done while dependency " + dep + " is not done",
				})
			}
		}
		t.Status = StatusDone
		ts := now
		t.ActualFinish = &ts

	default:
		return nil, dagrerr.InvalidField("status", "unknown status "+string(status))
	}

	return warnings, nil
}

// Reset clears a task's status and actual timestamps back to not_started.
func (s *State) Reset(id string) error {
	if _, ok := s.tasks[id]; !ok {
		return dagrerr.UnknownTask(id)
	}
	_, err := s.SetStatus(id, StatusNotStarted, time.Time{})
	return err
}

// SetCapacityOverride sets (or, at hours==0, marks off) the working
// capacity for a specific calendar date.
func (s *State) SetCapacityOverride(date time.Time, hours float64) error {
	if hours < 0 {
		return dagrerr.InvalidField("hours", "must be non-negative")
	}
	key := date.Format("2006-01-02")
	if s.Config.CapacityOverrides == nil {
		s.Config.CapacityOverrides = map[string]float64{}
	}
	s.Config.CapacityOverrides[key] = hours
	return nil
}

// Validate re-checks every invariant against the current state.
func (s *State) Validate() error {
	return validateAll(s.Config, s.tasks)
}

// FlexibleWarnings reports, for every non-flexible task that depends
// (directly) on a flexible one, a warning that the primary schedule may be
// perturbed — the "may warrant a validation warning" case the spec leaves
// open for a real dependency chain into a flexible task.
func (s *State) FlexibleWarnings() []Warning {
	var warnings []Warning
	for _, id := range s.order {
		t := s.tasks[id]
		if t.Flexible {
			continue
		}
		for _, dep := range t.DependsOn {
			if d, ok := s.tasks[dep]; ok && d.Flexible {
				warnings = append(warnings, Warning{
					Code:    "DEPENDS_ON_FLEXIBLE",
					Message: "task " + id + " depends on flexible task " + dep + "; flexible tasks are treated as non-blocking, so this dependency has no scheduling effect",
				})
			}
		}
	}
	return warnings
}

func (s *State) snapshotTasks() map[string]*Task {
	out := make(map[string]*Task, len(s.tasks)+1)
	for k, v := range s.tasks {
		out[k] = v
	}
	return out
}

func normalizeIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	set := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || set[id] {
			continue
		}
		set[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	set := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, tg := range tags {
		if tg == "" || set[tg] {
			continue
		}
		set[tg] = true
		out = append(out, tg)
	}
	sort.Strings(out)
	return out
}

func removeID(ids []string, target string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func strOr(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}
