package formatter

import (
	"time"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/leveler"
	"github.com/dagr-project/dagr/internal/project"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }
func boolp(b bool) *bool      { return &b }

// chainState builds a small fixture: a design -> implement critical chain,
// a flexible side-quest, and a background reading task, matching the
// scheduling story exercised elsewhere in the engine's tests.
func chainState(t testingT) (*project.State, *cpm.Schedule, *leveler.Schedule) {
	st := project.New(project.DefaultConfig(time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)))

	design, err := st.Add(project.TaskInput{Name: strp("design doc"), DurationHours: f64p(4)})
	must(t, err)
	implement, err := st.Add(project.TaskInput{
		Name: strp("implement"), DurationHours: f64p(8), DependsOn: []string{design.ID},
	})
	must(t, err)
	_, err = st.Add(project.TaskInput{
		Name: strp("side quest"), DurationHours: f64p(1), Flexible: boolp(true), Tags: []string{"quick"},
	})
	must(t, err)
	_, err = st.Add(project.TaskInput{
		Name: strp("read docs"), DurationHours: f64p(2), Background: boolp(true),
	})
	must(t, err)

	sched, err := cpm.Compute(st, time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC))
	must(t, err)
	lvl, err := leveler.Compute(st, sched, time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC))
	must(t, err)

	_ = design
	_ = implement
	return st, sched, lvl
}

// testingT is the minimal subset of *testing.T this fixture needs, so it
// can live in a _test.go file without importing "testing" at package scope
// for non-test callers.
type testingT interface {
	Fatalf(format string, args ...interface{})
}

func must(t testingT, err error) {
	if err != nil {
		t.Fatalf("fixture setup: %v", err)
	}
}
