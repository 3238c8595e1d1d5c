package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dagr-project/dagr/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

func TestLoad_MissingFileIsStateNotInitialized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagr.json")
	_, err := Open(path).Load()
	require.Error(t, err)
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagr.json")

	start := time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	st := project.New(project.DefaultConfig(start))
	deadline := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := st.Add(project.TaskInput{
		Name: strp("design doc"), DurationHours: f64p(4), Deadline: &deadline,
		Tags: []string{"writing"}, Notes: strp("first pass"),
	})
	require.NoError(t, err)
	_, err = st.Add(project.TaskInput{Name: strp("implement"), DurationHours: f64p(8), DependsOn: []string{"T-1"}})
	require.NoError(t, err)

	require.NoError(t, Open(path).Save(st))

	loaded, err := Open(path).Load()
	require.NoError(t, err)

	a, err := loaded.Get("T-1")
	require.NoError(t, err)
	assert.Equal(t, "design doc", a.Name)
	assert.Equal(t, 4.0, a.DurationHours)
	require.NotNil(t, a.Deadline)
	assert.True(t, a.Deadline.Equal(deadline))
	assert.Equal(t, []string{"writing"}, a.Tags)
	assert.Equal(t, "first pass", a.Notes)

	b, err := loaded.Get("T-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1"}, b.DependsOn)

	assert.True(t, loaded.Config.StartDatetime.Equal(start))
	assert.Equal(t, 8.0, loaded.Config.HoursPerDay)
	assert.True(t, loaded.Config.SkipWeekends)
}

func TestSaveThenLoad_ExplicitZeroHoursPerDaySurvivesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagr.json")

	cfg := project.DefaultConfig(time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC))
	cfg.HoursPerDay = 0
	cfg.CapacityOverrides = map[string]float64{"2026-02-23": 4}
	st := project.New(cfg)

	require.NoError(t, Open(path).Save(st))

	loaded, err := Open(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 0.0, loaded.Config.HoursPerDay)
}

func TestLoad_MissingHoursPerDayFieldDefaultsToEight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagr.json")
	raw := `{
		"config": {"start_date": "2026-02-23", "start_time": "09:00", "day_start_time": "09:00", "skip_weekends": true},
		"tasks": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	loaded, err := Open(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 8.0, loaded.Config.HoursPerDay)
}

func TestSaveThenLoad_ProposedStartRoundTripsAsDateOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagr.json")

	start := time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	st := project.New(project.DefaultConfig(start))
	proposed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := st.Add(project.TaskInput{Name: strp("design doc"), DurationHours: f64p(4), ProposedStart: &proposed})
	require.NoError(t, err)

	require.NoError(t, Open(path).Save(st))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"proposed_start": "2026-03-01"`)

	loaded, err := Open(path).Load()
	require.NoError(t, err)

	a, err := loaded.Get("T-1")
	require.NoError(t, err)
	require.NotNil(t, a.ProposedStart)
	assert.True(t, a.ProposedStart.Equal(proposed))
}

func TestSave_NoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dagr.json")

	st := project.New(project.DefaultConfig(time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, Open(path).Save(st))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dagr.json", entries[0].Name())
}

func TestLoad_PreservesUnknownFieldsOnRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagr.json")

	raw := `{
  "config": {
    "start_date": "2026-02-23",
    "start_time": "09:00",
    "hours_per_day": 8,
    "day_start_time": "09:00",
    "skip_weekends": true
  },
  "future_doc_field": "kept",
  "tasks": [
    {
      "id": "T-1",
      "name": "a",
      "duration_hrs": 2,
      "status": "not_started",
      "future_task_field": 42
    }
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	s := Open(path)
	loaded, err := s.Load()
	require.NoError(t, err)

	require.NoError(t, s.Save(loaded))

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "future_doc_field")
	assert.Contains(t, string(rewritten), "future_task_field")
}
