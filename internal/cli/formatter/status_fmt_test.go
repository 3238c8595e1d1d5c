package formatter

import (
	"testing"
	"time"

	"github.com/dagr-project/dagr/internal/project"
	"github.com/stretchr/testify/assert"
)

func TestFormatStatus_CountsByLifecycleAndCriticality(t *testing.T) {
	st, sched, _ := chainState(t)
	out := FormatStatus(st, sched, nil)
	assert.Contains(t, out, "not started:")
	assert.Contains(t, out, "in progress:")
	assert.Contains(t, out, "done:")
	assert.Contains(t, out, "critical: 2") // design doc, implement
	assert.Contains(t, out, "horizon:")
}

func TestFormatStatus_ListsAtRiskTasks(t *testing.T) {
	st, sched, _ := chainState(t)
	deadline := time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC)
	atRisk := []*project.Task{{ID: "T-2", Name: "implement", Deadline: &deadline}}
	out := FormatStatus(st, sched, atRisk)
	assert.Contains(t, out, "at risk of missing deadline:")
	assert.Contains(t, out, "T-2")
	assert.Contains(t, out, "implement")
}

func TestFormatStatus_NoAtRiskTasksOmitsSection(t *testing.T) {
	st, sched, _ := chainState(t)
	out := FormatStatus(st, sched, nil)
	assert.NotContains(t, out, "at risk")
}
