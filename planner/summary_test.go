package planner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/planner"
)

func TestSummarize_CertificateScenario(t *testing.T) {
	m := planner.Summarize(scenarioPlan(t))

	assert.Equal(t, date(2026, time.July, 21), m.SpanStart)
	assert.Equal(t, date(2026, time.August, 21), m.SpanEnd)
	assert.Equal(t, 32, m.CalendarDays)
	assert.Equal(t, 24, m.TotalWorkingDays)
	assert.True(t, m.TotalHours.Equal(hours(120)))

	// Weeks of Jul 20, Jul 27, Aug 3, Aug 10, Aug 17: 20h then 25h x4
	assert.Equal(t, 5, m.Weeks)
	assert.InDelta(t, 24.0, m.HoursPerWeekAvg, 0.001)
	assert.InDelta(t, 25.0, m.PeakWeekHours, 0.001)

	require.Len(t, m.PerModule, 3)
	assert.Equal(t, planner.ModuleRange{
		ModuleID: "MF2", Code: "MF2",
		Start: date(2026, time.July, 29), End: date(2026, time.August, 13),
		Sessions: 12, Hours: m.PerModule[1].Hours,
	}, m.PerModule[1])
	assert.True(t, m.PerModule[1].Hours.Equal(hours(60)))
}

func TestSummarize_EmptyWeeksInsideSpanCount(t *testing.T) {
	plan := planner.Plan{Modules: []planner.ModuleSchedule{
		{Module: module("A", 10), Sessions: []planner.Session{
			{ModuleID: "A", Date: date(2026, time.July, 21), Hours: hours(5)},
			{ModuleID: "A", Date: date(2026, time.August, 4), Hours: hours(5)},
		}},
	}}
	m := planner.Summarize(plan)

	assert.Equal(t, 3, m.Weeks)
	assert.InDelta(t, 3.33, m.HoursPerWeekAvg, 0.001)
	assert.Equal(t, 2, m.TotalWorkingDays)
}

func TestSummarize_BestEffortOnIncoherentPlan(t *testing.T) {
	// Overlapping modules and a module with no sessions still summarize
	plan := planner.Plan{Modules: []planner.ModuleSchedule{
		{Module: module("A", 5), Sessions: []planner.Session{{ModuleID: "A", Date: date(2026, time.July, 21), Hours: hours(5)}}},
		{Module: module("B", 5), Sessions: []planner.Session{{ModuleID: "B", Date: date(2026, time.July, 21), Hours: hours(5)}}},
		{Module: module("C", 30)},
	}}
	m := planner.Summarize(plan)

	assert.Equal(t, 1, m.TotalWorkingDays)
	assert.True(t, m.TotalHours.Equal(hours(10)))
	assert.True(t, m.PerModule[2].Start.IsZero())
	assert.Equal(t, 0, m.PerModule[2].Sessions)
}

func TestSummarize_EmptyPlan(t *testing.T) {
	m := planner.Summarize(planner.Plan{})
	assert.True(t, m.SpanStart.IsZero())
	assert.Equal(t, 0, m.Weeks)
	assert.Equal(t, 0.0, m.HoursPerWeekAvg)
	assert.True(t, m.TotalHours.Equal(generic.ZeroHours))
}
