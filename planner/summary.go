package planner

import (
	"math"

	"github.com/warp/course-planner/generic"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// =============================================================================
// METRICS - Dashboard projection of a plan
// =============================================================================

// ModuleRange is the date range one module occupies.
type ModuleRange struct {
	ModuleID string
	Code     string
	Start    generic.TimePoint // zero when the module has no sessions
	End      generic.TimePoint
	Sessions int
	Hours    generic.Hours
}

// Metrics summarizes a plan. Values are best effort over whatever sessions
// exist; coherence is the verifier's job.
type Metrics struct {
	SpanStart        generic.TimePoint
	SpanEnd          generic.TimePoint
	CalendarDays     int
	TotalWorkingDays int // distinct dates with at least one session
	TotalHours       generic.Hours
	Weeks            int // ISO weeks touched by the span
	HoursPerWeekAvg  float64
	PeakWeekHours    float64
	PerModule        []ModuleRange
}

// Summarize computes Metrics without validating plan.
func Summarize(plan Plan) Metrics {
	m := Metrics{TotalHours: generic.ZeroHours}
	days := make(map[generic.TimePoint]bool)

	for _, ms := range plan.Modules {
		r := ModuleRange{ModuleID: ms.Module.ID, Code: ms.Module.Code, Sessions: len(ms.Sessions), Hours: ms.ScheduledHours()}
		if first, last, ok := ms.Span(); ok {
			r.Start, r.End = first, last
			if m.SpanStart.IsZero() || first.Before(m.SpanStart) {
				m.SpanStart = first
			}
			if last.After(m.SpanEnd) {
				m.SpanEnd = last
			}
		}
		for _, s := range ms.Sessions {
			days[generic.FromTime(s.Date.Time)] = true
		}
		m.TotalHours = m.TotalHours.Add(r.Hours)
		m.PerModule = append(m.PerModule, r)
	}

	m.TotalWorkingDays = len(days)
	if m.SpanStart.IsZero() {
		return m
	}
	m.CalendarDays = generic.Period{Start: m.SpanStart, End: m.SpanEnd}.Len()

	weekly := weeklyHours(plan, m.SpanStart, m.SpanEnd)
	m.Weeks = len(weekly)
	m.HoursPerWeekAvg = round2(stat.Mean(weekly, nil))
	m.PeakWeekHours = round2(floats.Max(weekly))
	return m
}

// weeklyHours buckets session hours per ISO week between start and end.
// Weeks without sessions inside the span count as zero.
func weeklyHours(plan Plan, start, end generic.TimePoint) []float64 {
	first := start.StartOfISOWeek()
	n := generic.DaysBetween(first, end.StartOfISOWeek())/7 + 1
	weekly := make([]float64, n)
	for _, s := range plan.Sessions() {
		i := generic.DaysBetween(first, generic.FromTime(s.Date.Time).StartOfISOWeek()) / 7
		if i < 0 || i >= n {
			continue
		}
		weekly[i] += s.Hours.InexactFloat64()
	}
	return weekly
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
