package project

import (
	"testing"
	"time"

	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	return New(DefaultConfig(time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)))
}

func strp(s string) *string    { return &s }
func f64p(f float64) *float64  { return &f }
func boolp(b bool) *bool       { return &b }

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	s := newTestState()
	a, err := s.Add(TaskInput{Name: strp("first"), DurationHours: f64p(1)})
	require.NoError(t, err)
	assert.Equal(t, "T-1", a.ID)

	b, err := s.Add(TaskInput{Name: strp("second"), DurationHours: f64p(1)})
	require.NoError(t, err)
	assert.Equal(t, "T-2", b.ID)
}

func TestAdd_RejectsNegativeDuration(t *testing.T) {
	s := newTestState()
	_, err := s.Add(TaskInput{Name: strp("bad"), DurationHours: f64p(-1)})
	require.Error(t, err)
	kind, _ := dagrerr.KindOf(err)
	assert.Equal(t, dagrerr.KindInvalidField, kind)
}

func TestAdd_ZeroDurationIsValidMilestone(t *testing.T) {
	s := newTestState()
	task, err := s.Add(TaskInput{Name: strp("milestone"), DurationHours: f64p(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, task.DurationHours)
}

func TestAdd_RejectsUnknownDependency(t *testing.T) {
	s := newTestState()
	_, err := s.Add(TaskInput{Name: strp("x"), DurationHours: f64p(1), DependsOn: []string{"T-99"}})
	require.Error(t, err)
}

func TestUpdate_AddDependency_RejectsCycle(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	b, err := s.Add(TaskInput{Name: strp("b"), DurationHours: f64p(1), DependsOn: []string{a.ID}})
	require.NoError(t, err)

	_, err = s.Update(a.ID, TaskInput{DependsOn: []string{b.ID}})
	require.Error(t, err)
	kind, _ := dagrerr.KindOf(err)
	assert.Equal(t, dagrerr.KindCycleDetected, kind)
}

func TestDelete_ScrubsDependents(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	b, err := s.Add(TaskInput{Name: strp("b"), DurationHours: f64p(1), DependsOn: []string{a.ID}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(a.ID))

	got, err := s.Get(b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DependsOn)

	_, err = s.Get(a.ID)
	require.Error(t, err)
}

func TestSetStatus_DoneRequiresActualFinish(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	now := time.Date(2026, 2, 23, 10, 0, 0, 0, time.UTC)

	_, err := s.SetStatus(a.ID, StatusDone, now)
	require.NoError(t, err)

	got, _ := s.Get(a.ID)
	assert.Equal(t, StatusDone, got.Status)
	require.NotNil(t, got.ActualFinish)
	assert.Equal(t, now, *got.ActualFinish)
}

func TestSetStatus_DoneWithoutStart_Warns(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	now := time.Date(2026, 2, 23, 10, 0, 0, 0, time.UTC)

	warnings, err := s.SetStatus(a.ID, StatusDone, now)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "NO_START_RECORDED", warnings[0].Code)
}

func TestSetStatus_DoneWithUnfinishedDependency_Warns(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	b, _ := s.Add(TaskInput{Name: strp("b"), DurationHours: f64p(1), DependsOn: []string{a.ID}})
	now := time.Date(2026, 2, 23, 10, 0, 0, 0, time.UTC)

	_, err := s.SetStatus(b.ID, StatusInProgress, now)
	require.NoError(t, err)
	warnings, err := s.SetStatus(b.ID, StatusDone, now)
	require.NoError(t, err)

	var codes []string
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, "DEPENDENCY_NOT_DONE")
}

func TestReset_ClearsActualTimestamps(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	now := time.Date(2026, 2, 23, 10, 0, 0, 0, time.UTC)
	_, err := s.SetStatus(a.ID, StatusInProgress, now)
	require.NoError(t, err)

	require.NoError(t, s.Reset(a.ID))
	got, _ := s.Get(a.ID)
	assert.Equal(t, StatusNotStarted, got.Status)
	assert.Nil(t, got.ActualStart)
	assert.Nil(t, got.ActualFinish)
}

func TestSelfDependency_Rejected(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	_, err := s.Update(a.ID, TaskInput{DependsOn: []string{a.ID}})
	require.Error(t, err)
}

func TestFlexibleWarnings(t *testing.T) {
	s := newTestState()
	flex, _ := s.Add(TaskInput{Name: strp("side quest"), DurationHours: f64p(1), Flexible: boolp(true)})
	_, err := s.Add(TaskInput{Name: strp("main"), DurationHours: f64p(1), DependsOn: []string{flex.ID}})
	require.NoError(t, err)

	warnings := s.FlexibleWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "DEPENDS_ON_FLEXIBLE", warnings[0].Code)
}

func TestAddWithID_AbsorbsSequence(t *testing.T) {
	s := newTestState()
	_, err := s.AddWithID("T-5", TaskInput{Name: strp("explicit"), DurationHours: f64p(1)})
	require.NoError(t, err)

	next, err := s.Add(TaskInput{Name: strp("after"), DurationHours: f64p(1)})
	require.NoError(t, err)
	assert.Equal(t, "T-6", next.ID)
}

func TestGet_ReturnsDefensiveCopy(t *testing.T) {
	s := newTestState()
	a, _ := s.Add(TaskInput{Name: strp("a"), DurationHours: f64p(1)})
	got, _ := s.Get(a.ID)
	got.Name = "mutated"

	again, _ := s.Get(a.ID)
	assert.Equal(t, "a", again.Name)
}
