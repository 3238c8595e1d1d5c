// Package store persists a Project State to the on-disk dagr.json wire
// format: staged writes (temp file + rename) so a crash mid-save can never
// leave a half-written file in place, and best-effort preservation of
// fields the current build doesn't know about, so a newer dagr.json
// written by a future version round-trips without data loss.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dagr-project/dagr/internal/calendar"
	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/dagr-project/dagr/internal/project"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// Store reads and writes a single dagr.json file, remembering any fields
// from the last load that the current schema doesn't model, so Save can
// carry them forward.
type Store struct {
	path       string
	docExtras  map[string]json.RawMessage
	taskExtras map[string]map[string]json.RawMessage
}

// Open returns a Store bound to path. Nothing is read until Load is called.
func Open(path string) *Store {
	return &Store{
		path:       path,
		taskExtras: map[string]map[string]json.RawMessage{},
	}
}

type wireDocument struct {
	Config wireConfig `json:"config"`
	Tasks  []wireTask `json:"tasks"`
}

type wireConfig struct {
	StartDate    string  `json:"start_date"`
	StartTime    string  `json:"start_time"`
	// HoursPerDay is a pointer so an absent field (an older or
	// hand-authored dagr.json) can fall back to the 8h default while an
	// explicit 0 - a project scheduled entirely off capacity_overrides -
	// round-trips exactly instead of being coerced back to 8.
	HoursPerDay       *float64           `json:"hours_per_day"`
	DayStartTime      string             `json:"day_start_time"`
	SkipWeekends      bool               `json:"skip_weekends"`
	CapacityOverrides map[string]float64 `json:"capacity_overrides,omitempty"`
}

type wireTask struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DurationHours float64  `json:"duration_hrs"`
	DependsOn     []string `json:"depends_on,omitempty"`
	Deadline      *string  `json:"deadline,omitempty"`
	ProposedStart *string  `json:"proposed_start,omitempty"`
	Background    bool     `json:"background,omitempty"`
	Flexible      bool     `json:"flexible,omitempty"`
	Project       string   `json:"project,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Status        string   `json:"status"`
	ActualStart   *string  `json:"actual_start,omitempty"`
	ActualFinish  *string  `json:"actual_finish,omitempty"`
}

// Load reads and parses the state file. A missing file is reported as
// StateNotInitialized, per the error taxonomy's "operation requires init
// first" kind.
func (s *Store) Load() (*project.State, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dagrerr.StateNotInitialized()
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc wireDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}

	s.docExtras = extraFields(raw, "config", "tasks")

	var taskExtraList []map[string]json.RawMessage
	var rawTasksHolder struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(raw, &rawTasksHolder); err == nil {
		for _, rt := range rawTasksHolder.Tasks {
			taskExtraList = append(taskExtraList, extraFields(rt,
				"id", "name", "duration_hrs", "depends_on", "deadline",
				"proposed_start", "background", "flexible", "project",
				"tags", "notes", "status", "actual_start", "actual_finish"))
		}
	}

	cfg, err := configFromWire(doc.Config)
	if err != nil {
		return nil, err
	}

	s.taskExtras = map[string]map[string]json.RawMessage{}
	tasks := make([]*project.Task, 0, len(doc.Tasks))
	for i, wt := range doc.Tasks {
		t, err := taskFromWire(wt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
		if i < len(taskExtraList) && len(taskExtraList[i]) > 0 {
			s.taskExtras[t.ID] = taskExtraList[i]
		}
	}

	return project.Restore(cfg, tasks)
}

// Save stages the full state as JSON and atomically renames it into place,
// folding back any fields preserved from the last Load.
func (s *Store) Save(st *project.State) error {
	doc := wireDocument{
		Config: configToWire(st.Config),
	}
	for _, t := range st.List() {
		doc.Tasks = append(doc.Tasks, taskToWire(t))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	merged, err := mergeExtras(data, s.docExtras, s.taskExtras)
	if err != nil {
		return fmt.Errorf("merging preserved fields: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".dagr-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(merged); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming temp state file into place: %w", err)
	}

	success = true
	return nil
}

func configFromWire(w wireConfig) (project.Config, error) {
	startDate, err := time.Parse(dateLayout, w.StartDate)
	if err != nil {
		return project.Config{}, dagrerr.InvalidField("config.start_date", err.Error())
	}
	hour, minute := 9, 0
	if w.StartTime != "" {
		hour, minute, err = parseClock(w.StartTime)
		if err != nil {
			return project.Config{}, dagrerr.InvalidField("config.start_time", err.Error())
		}
	}
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), hour, minute, 0, 0, time.UTC)

	dsHour, dsMinute := 9, 0
	if w.DayStartTime != "" {
		dsHour, dsMinute, err = parseClock(w.DayStartTime)
		if err != nil {
			return project.Config{}, dagrerr.InvalidField("config.day_start_time", err.Error())
		}
	}

	hoursPerDay := 8.0
	if w.HoursPerDay != nil {
		hoursPerDay = *w.HoursPerDay
	}

	overrides := w.CapacityOverrides
	if overrides == nil {
		overrides = map[string]float64{}
	}

	return project.Config{
		StartDatetime:     start,
		HoursPerDay:       hoursPerDay,
		DayStartTime:      calendar.TimeOfDay{Hour: dsHour, Minute: dsMinute},
		SkipWeekends:      w.SkipWeekends,
		CapacityOverrides: overrides,
	}, nil
}

func configToWire(c project.Config) wireConfig {
	hoursPerDay := c.HoursPerDay
	return wireConfig{
		StartDate:         c.StartDatetime.Format(dateLayout),
		StartTime:         c.StartDatetime.Format(clockLayout),
		HoursPerDay:       &hoursPerDay,
		DayStartTime:      fmt.Sprintf("%02d:%02d", c.DayStartTime.Hour, c.DayStartTime.Minute),
		SkipWeekends:      c.SkipWeekends,
		CapacityOverrides: c.CapacityOverrides,
	}
}

func parseClock(s string) (int, int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func taskFromWire(w wireTask) (*project.Task, error) {
	t := &project.Task{
		ID:            w.ID,
		Name:          w.Name,
		DurationHours: w.DurationHours,
		DependsOn:     w.DependsOn,
		Background:    w.Background,
		Flexible:      w.Flexible,
		Project:       w.Project,
		Tags:          w.Tags,
		Notes:         w.Notes,
		Status:        project.Status(w.Status),
	}
	if t.Status == "" {
		t.Status = project.StatusNotStarted
	}

	var err error
	if t.Deadline, err = parseOptionalDate(w.Deadline, "deadline"); err != nil {
		return nil, err
	}
	if t.ProposedStart, err = parseOptionalDate(w.ProposedStart, "proposed_start"); err != nil {
		return nil, err
	}
	if t.ActualStart, err = parseOptionalDatetime(w.ActualStart, "actual_start"); err != nil {
		return nil, err
	}
	if t.ActualFinish, err = parseOptionalDatetime(w.ActualFinish, "actual_finish"); err != nil {
		return nil, err
	}

	return t, nil
}

func taskToWire(t *project.Task) wireTask {
	return wireTask{
		ID:            t.ID,
		Name:          t.Name,
		DurationHours: t.DurationHours,
		DependsOn:     t.DependsOn,
		Deadline:      formatOptionalDate(t.Deadline),
		ProposedStart: formatOptionalDate(t.ProposedStart),
		Background:    t.Background,
		Flexible:      t.Flexible,
		Project:       t.Project,
		Tags:          t.Tags,
		Notes:         t.Notes,
		Status:        string(t.Status),
		ActualStart:   formatOptionalDatetime(t.ActualStart),
		ActualFinish:  formatOptionalDatetime(t.ActualFinish),
	}
}

func parseOptionalDate(s *string, field string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, dagrerr.InvalidField(field, err.Error())
	}
	return &d, nil
}

func parseOptionalDatetime(s *string, field string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, dagrerr.InvalidField(field, err.Error())
	}
	return &d, nil
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatOptionalDatetime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// extraFields returns the top-level JSON object members of raw that aren't
// in known, keyed by their original field name.
func extraFields(raw json.RawMessage, known ...string) map[string]json.RawMessage {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil
	}
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}
	out := map[string]json.RawMessage{}
	for k, v := range all {
		if !knownSet[k] {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mergeExtras re-parses the freshly marshaled document as a generic map and
// splices back any document- and task-level fields carried over from the
// last Load that the current schema dropped.
func mergeExtras(data []byte, docExtras map[string]json.RawMessage, taskExtras map[string]map[string]json.RawMessage) ([]byte, error) {
	if len(docExtras) == 0 && len(taskExtras) == 0 {
		return data, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for k, v := range docExtras {
		doc[k] = v
	}

	if len(taskExtras) > 0 {
		var tasks []map[string]json.RawMessage
		if err := json.Unmarshal(doc["tasks"], &tasks); err != nil {
			return nil, err
		}
		for _, task := range tasks {
			idRaw, ok := task["id"]
			if !ok {
				continue
			}
			var id string
			if err := json.Unmarshal(idRaw, &id); err != nil {
				continue
			}
			for k, v := range taskExtras[id] {
				task[k] = v
			}
		}
		tasksJSON, err := json.Marshal(tasks)
		if err != nil {
			return nil, err
		}
		doc["tasks"] = tasksJSON
	}

	return json.MarshalIndent(doc, "", "  ")
}
