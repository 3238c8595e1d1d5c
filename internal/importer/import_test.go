package importer

import (
	"testing"
	"time"

	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/dagr-project/dagr/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState() *project.State {
	return project.New(project.DefaultConfig(time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)))
}

func TestValidateSchema_RequiresNameAndDuration(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"tasks": [ {"name": "", "duration_hrs": -1} ]}`))
	require.NoError(t, err)

	errs := ValidateSchema(schema)
	require.Len(t, errs, 2)
}

func TestValidateSchema_RejectsMalformedDates(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"tasks": [ {"name": "a", "duration_hrs": 2, "deadline": "not-a-date"} ]}`))
	require.NoError(t, err)

	errs := ValidateSchema(schema)
	require.Len(t, errs, 1)
}

func TestValidateSchema_AcceptsDateOnlyProposedStart(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"tasks": [ {"name": "a", "duration_hrs": 2, "proposed_start": "2026-03-01"} ]}`))
	require.NoError(t, err)

	assert.Empty(t, ValidateSchema(schema))
}

func TestValidateSchema_RejectsDatetimeProposedStart(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"tasks": [ {"name": "a", "duration_hrs": 2, "proposed_start": "2026-03-01T00:00:00Z"} ]}`))
	require.NoError(t, err)

	errs := ValidateSchema(schema)
	require.Len(t, errs, 1)
}

func TestApply_SetsProposedStartFromDateOnlyString(t *testing.T) {
	st := newState()
	schema, err := ParseSchema([]byte(`{"tasks": [ {"name": "a", "duration_hrs": 2, "proposed_start": "2026-03-01"} ]}`))
	require.NoError(t, err)
	require.Empty(t, ValidateSchema(schema))

	_, err = Apply(schema, st)
	require.NoError(t, err)

	task, err := st.Get("T-1")
	require.NoError(t, err)
	require.NotNil(t, task.ProposedStart)
	assert.True(t, task.ProposedStart.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestApply_ResolvesNameReferenceWithinBatch(t *testing.T) {
	st := newState()
	schema, err := ParseSchema([]byte(`{
		"tasks": [
			{"name": "design", "duration_hrs": 4},
			{"name": "implement", "duration_hrs": 8, "depends_on": ["design"]}
		]
	}`))
	require.NoError(t, err)
	require.Empty(t, ValidateSchema(schema))

	result, err := Apply(schema, st)
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	implement, err := st.Get("T-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1"}, implement.DependsOn)
}

func TestApply_CommitsDependencyBeforeDependentRegardlessOfFileOrder(t *testing.T) {
	st := newState()
	schema, err := ParseSchema([]byte(`{
		"tasks": [
			{"name": "implement", "duration_hrs": 8, "depends_on": ["design"]},
			{"name": "design", "duration_hrs": 4}
		]
	}`))
	require.NoError(t, err)
	require.Empty(t, ValidateSchema(schema))

	result, err := Apply(schema, st)
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	implement, err := st.Get("T-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-2"}, implement.DependsOn)
}

func TestApply_AutoAssignedIDNeverCollidesWithLaterExplicitID(t *testing.T) {
	st := newState()
	schema, err := ParseSchema([]byte(`{
		"tasks": [
			{"name": "auto-assigned", "duration_hrs": 2},
			{"id": "T-1", "name": "explicit", "duration_hrs": 3}
		]
	}`))
	require.NoError(t, err)
	require.Empty(t, ValidateSchema(schema))

	result, err := Apply(schema, st)
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	explicitTask, err := st.Get("T-1")
	require.NoError(t, err)
	assert.Equal(t, "explicit", explicitTask.Name)

	autoTask, err := st.Get("T-2")
	require.NoError(t, err)
	assert.Equal(t, "auto-assigned", autoTask.Name)
}

func TestApply_IDMatchingExistingTaskIsAnUpdate(t *testing.T) {
	st := newState()
	_, err := st.Add(project.TaskInput{Name: strp("draft"), DurationHours: f64p(2)})
	require.NoError(t, err)

	schema, err := ParseSchema([]byte(`{"tasks": [ {"id": "T-1", "name": "draft v2", "duration_hrs": 3} ]}`))
	require.NoError(t, err)

	result, err := Apply(schema, st)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, []string{"T-1"}, result.Updated)

	updated, err := st.Get("T-1")
	require.NoError(t, err)
	assert.Equal(t, "draft v2", updated.Name)
	assert.Equal(t, 3.0, updated.DurationHours)
}

func TestApply_IDNotMatchingExistingTaskIsACreate(t *testing.T) {
	st := newState()
	schema, err := ParseSchema([]byte(`{"tasks": [ {"id": "T-5", "name": "seeded", "duration_hrs": 1} ]}`))
	require.NoError(t, err)

	result, err := Apply(schema, st)
	require.NoError(t, err)
	assert.Equal(t, []string{"T-5"}, result.Created)

	task, err := st.Get("T-5")
	require.NoError(t, err)
	assert.Equal(t, "seeded", task.Name)
}

func TestApply_UnresolvedReferenceFails(t *testing.T) {
	st := newState()
	schema, err := ParseSchema([]byte(`{"tasks": [ {"name": "a", "duration_hrs": 2, "depends_on": ["nonexistent"]} ]}`))
	require.NoError(t, err)

	_, err = Apply(schema, st)
	require.Error(t, err)
	kind, ok := dagrerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, dagrerr.KindUnresolvedReference, kind)
}

func TestApply_DependsOnMayNameAnExistingTask(t *testing.T) {
	st := newState()
	_, err := st.Add(project.TaskInput{Name: strp("existing"), DurationHours: f64p(2)})
	require.NoError(t, err)

	schema, err := ParseSchema([]byte(`{"tasks": [ {"name": "new", "duration_hrs": 1, "depends_on": ["T-1"]} ]}`))
	require.NoError(t, err)

	_, err = Apply(schema, st)
	require.NoError(t, err)

	task, err := st.Get("T-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1"}, task.DependsOn)
}

func TestApply_UpdateOmittingFieldLeavesItUnchanged(t *testing.T) {
	st := newState()
	_, err := st.Add(project.TaskInput{
		Name: strp("a"), DurationHours: f64p(2), Notes: strp("original notes"), Tags: []string{"writing"},
	})
	require.NoError(t, err)

	schema, err := ParseSchema([]byte(`{"tasks": [ {"id": "T-1", "name": "a", "duration_hrs": 3} ]}`))
	require.NoError(t, err)

	_, err = Apply(schema, st)
	require.NoError(t, err)

	task, err := st.Get("T-1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, task.DurationHours)
	assert.Equal(t, "original notes", task.Notes)
	assert.Equal(t, []string{"writing"}, task.Tags)
}

func TestApply_AmbiguousNameReferenceFails(t *testing.T) {
	st := newState()
	schema, err := ParseSchema([]byte(`{
		"tasks": [
			{"name": "review", "duration_hrs": 1},
			{"name": "review", "duration_hrs": 1},
			{"name": "final", "duration_hrs": 1, "depends_on": ["review"]}
		]
	}`))
	require.NoError(t, err)

	_, err = Apply(schema, st)
	require.Error(t, err)
	kind, ok := dagrerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, dagrerr.KindInvalidField, kind)
}

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }
