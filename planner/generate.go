/*
generate.go - Session generator

PURPOSE:
  Lays out modules day by day from a start date. A single cursor walks the
  calendar; each module consumes min(hoursPerDay, remaining) hours on every
  working day until its total reaches zero, then the next module continues
  from the day after. Modules are never interleaved and the cursor is never
  reset between them.

SKIPPING:
  Weekends (unless AllowWeekends) and excluded dates (unless AllowHolidays)
  are skipped without consuming hours. Skipping is bounded by
  MaxLookaheadDays.

DETERMINISM:
  Same inputs, same output. No wall clock, no shared state.

SEE ALSO:
  - shift.go: HoursPerDay and working-day predicate
  - cascade.go: resumes the same loop from an edited module
*/
package planner

import (
	"fmt"

	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/generic"
)

// Generate schedules modules sequentially from start.
func Generate(modules []Module, start generic.TimePoint, shift ShiftConfig, excluded calendar.ExcludedSet) ([]ModuleSchedule, error) {
	hoursPerDay, err := prepare(modules, start, shift)
	if err != nil {
		return nil, err
	}
	out, _, err := schedule(modules, start, hoursPerDay, shift, excluded)
	return out, err
}

// NewPlan generates a whole plan for a certificate.
func NewPlan(id, certificate string, modules []Module, start generic.TimePoint, shift ShiftConfig, excluded calendar.ExcludedSet) (Plan, error) {
	scheduled, err := Generate(modules, start, shift, excluded)
	if err != nil {
		return Plan{}, err
	}
	return Plan{ID: id, Certificate: certificate, Start: start, Modules: scheduled}, nil
}

// prepare validates everything before any session is produced.
func prepare(modules []Module, start generic.TimePoint, shift ShiftConfig) (generic.Hours, error) {
	hoursPerDay, err := shift.HoursPerDay()
	if err != nil {
		return generic.ZeroHours, err
	}
	if start.IsZero() {
		return generic.ZeroHours, &generic.ConfigurationError{Field: "start_date", Err: generic.ErrInvalidDate}
	}
	if err := validateModules(modules); err != nil {
		return generic.ZeroHours, err
	}
	return hoursPerDay, nil
}

func validateModules(modules []Module) error {
	seen := make(map[string]bool, len(modules))
	for i, m := range modules {
		if m.ID == "" {
			return &generic.ConfigurationError{Field: fmt.Sprintf("modules[%d].id", i), Err: generic.ErrInvalidModule}
		}
		if seen[m.ID] {
			return &generic.ConfigurationError{Field: fmt.Sprintf("modules[%d].id", i), Value: m.ID, Err: generic.ErrInvalidModule}
		}
		seen[m.ID] = true
		if m.TotalHours.IsNegative() {
			return &generic.ConfigurationError{Field: fmt.Sprintf("modules[%d].hours", i), Value: m.TotalHours.String(), Err: generic.ErrInvalidModule}
		}
	}
	return nil
}

// schedule runs the cursor loop and returns the cursor where it stopped
// (the day after the last emitted session, not yet checked for work).
func schedule(modules []Module, cursor generic.TimePoint, hoursPerDay generic.Hours, shift ShiftConfig, excluded calendar.ExcludedSet) ([]ModuleSchedule, generic.TimePoint, error) {
	out := make([]ModuleSchedule, 0, len(modules))
	for _, m := range modules {
		ms := ModuleSchedule{Module: m}
		remaining := m.TotalHours
		for remaining.IsPositive() {
			day, err := shift.NextWorkingDay(cursor, excluded)
			if err != nil {
				return nil, cursor, fmt.Errorf("scheduling %s: %w", m.Code, err)
			}
			hours := generic.MinHours(hoursPerDay, remaining)
			ms.Sessions = append(ms.Sessions, Session{ModuleID: m.ID, Date: day, Hours: hours})
			remaining = remaining.Sub(hours)
			cursor = day.AddDays(1)
		}
		out = append(out, ms)
	}
	return out, cursor, nil
}
