package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dagr-project/dagr/internal/observability"
	"github.com/dagr-project/dagr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures every observed use case, for asserting that
// mutating commands report themselves.
type recordingObserver struct {
	events []observability.Event
}

func (r *recordingObserver) Observe(_ context.Context, event observability.Event) {
	r.events = append(r.events, event)
}

// testApp wires an App backed by a dagr.json file under a fresh temp
// directory, so each test gets an isolated, uninitialized project.
func testApp(t *testing.T) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dagr.json")

	return &App{
		Store:         store.Open(path),
		Now:           func() time.Time { return time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC) },
		Out:           new(bytes.Buffer),
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command against app and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	buf := app.Out.(*bytes.Buffer)
	buf.Reset()
	root := NewRootCmd(app)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func initApp(t *testing.T, app *App) {
	t.Helper()
	_, err := executeCmd(t, app, "init", "--start", "2026-02-23")
	require.NoError(t, err)
}

// --- init ---

func TestInitCmd_CreatesProject(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "init", "--start", "2026-02-23")
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	assert.Empty(t, app.State.List())
}

func TestInitCmd_RefusesWhenAlreadyInitialized(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "init", "--start", "2026-02-23")
	assert.Error(t, err)
}

// --- add / show / list ---

func TestAddCmd_RequiresName(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "add", "--duration", "4")
	assert.Error(t, err)
}

func TestAddCmd_CreatesTask(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	out, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	require.NoError(t, app.LoadState())
	assert.Len(t, app.State.List(), 1)
}

func TestShowCmd_UnknownTask(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "show", "t99")
	assert.Error(t, err)
}

func TestListCmd_FiltersByTag(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4", "--tag", "design")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "add", "--name", "side quest", "--duration", "1", "--tag", "quick")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "list", "--tag", "design")
	require.NoError(t, err)
	assert.Contains(t, out, "design doc")
	assert.NotContains(t, out, "side quest")
}

// --- update / delete ---

func TestUpdateCmd_ChangesOnlyGivenFields(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	id := app.State.List()[0].ID

	_, err = executeCmd(t, app, "update", id, "--duration", "6")
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	task, err := app.State.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "design doc", task.Name)
	assert.Equal(t, 6.0, task.DurationHours)
}

func TestDeleteCmd_RemovesTask(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	id := app.State.List()[0].ID

	_, err = executeCmd(t, app, "delete", id)
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	assert.Empty(t, app.State.List())
}

// --- start / done / reset / set-status ---

func TestStartDoneCmd_TransitionsStatus(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	id := app.State.List()[0].ID

	_, err = executeCmd(t, app, "start", id)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "done", id)
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	task, err := app.State.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "done", string(task.Status))
}

func TestResetCmd_ReturnsTaskToNotStarted(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	id := app.State.List()[0].ID
	_, err = executeCmd(t, app, "start", id)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "reset", id)
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	task, err := app.State.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "not_started", string(task.Status))
}

func TestSetStatusCmd_UnknownStatusErrors(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	require.NoError(t, app.LoadState())
	id := app.State.List()[0].ID

	_, err = executeCmd(t, app, "set-status", id, "bogus")
	assert.Error(t, err)
}

// --- schedule / critical-path / status / next / today / daily ---

func TestScheduleCmd_RendersWithoutData(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	out, err := executeCmd(t, app, "schedule")
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestScheduleCmd_CSVFlagEmitsHeader(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "schedule", "--csv")
	require.NoError(t, err)
	assert.Contains(t, out, "ID,Name,Stream,Start,End,Hours,Critical")
}

func TestCriticalPathCmd_RejectsBadSort(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "critical-path", "--sort", "bogus")
	assert.Error(t, err)
}

func TestStatusCmd_RunsOnEmptyProject(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not started")
}

func TestNextCmd_RunsWithData(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "next")
	require.NoError(t, err)
}

func TestTodayDailyCmd_RunWithoutError(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "today")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "daily", "-n", "3")
	require.NoError(t, err)
}

// --- capacity ---

func TestCapacityCmd_RejectsNonNumericHours(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "capacity", "2026-02-24", "bogus")
	assert.Error(t, err)
}

func TestCapacityCmd_SetsOverride(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "capacity", "2026-02-24", "0")
	require.NoError(t, err)
}

// --- viz / viz-html ---

func TestVizCmd_EmitsMermaid(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "viz")
	require.NoError(t, err)
	assert.Contains(t, out, "flowchart TD")
}

func TestVizHTMLCmd_EmitsHTML(t *testing.T) {
	app := testApp(t)
	initApp(t, app)
	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "viz-html")
	require.NoError(t, err)
	assert.Contains(t, out, "<html")
}

// --- import ---

func TestImportCmd_MissingFileErrors(t *testing.T) {
	app := testApp(t)
	initApp(t, app)

	_, err := executeCmd(t, app, "import", "/nonexistent/schema.json")
	assert.Error(t, err)
}

// --- observability ---

func TestMutatingCommands_ReportUseCaseEvents(t *testing.T) {
	app := testApp(t)
	obs := &recordingObserver{}
	app.Observer = obs

	_, err := executeCmd(t, app, "init", "--start", "2026-02-23")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	require.NoError(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "init_project", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "add_task", obs.events[1].Name)
	assert.True(t, obs.events[1].Success)
}

func TestMutatingCommands_ReportFailureOnError(t *testing.T) {
	app := testApp(t)
	obs := &recordingObserver{}
	app.Observer = obs

	_, err := executeCmd(t, app, "add", "--name", "design doc", "--duration", "4")
	assert.Error(t, err)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "add_task", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
}
