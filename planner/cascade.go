package planner

import (
	"fmt"

	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/generic"
)

// =============================================================================
// CASCADE - Moving one module pushes every later module
// =============================================================================

// CascadeResult is a recalculated plan the caller may commit or discard.
type CascadeResult struct {
	Plan Plan
	// AffectedCount is the moved module plus every later module whose
	// sessions actually changed.
	AffectedCount int
	// Changed lists the IDs counted in AffectedCount, in plan order.
	Changed []string
}

// MoveModule reschedules moduleID from newStart and chains every later
// module after it. Earlier modules are untouched and plan is not modified.
func MoveModule(plan Plan, moduleID string, newStart generic.TimePoint, shift ShiftConfig, excluded calendar.ExcludedSet) (CascadeResult, error) {
	idx := plan.IndexOf(moduleID)
	if idx < 0 {
		return CascadeResult{}, fmt.Errorf("move %s: %w", moduleID, generic.ErrModuleNotFound)
	}

	modules := plan.ModuleList()
	hoursPerDay, err := prepare(modules, newStart, shift)
	if err != nil {
		return CascadeResult{}, err
	}

	moved, cursor, err := schedule(modules[idx:idx+1], newStart, hoursPerDay, shift, excluded)
	if err != nil {
		return CascadeResult{}, err
	}
	downstream, _, err := schedule(modules[idx+1:], cursor, hoursPerDay, shift, excluded)
	if err != nil {
		return CascadeResult{}, err
	}

	next := Plan{ID: plan.ID, Certificate: plan.Certificate, Start: plan.Start}
	if idx == 0 {
		next.Start = newStart
	}
	next.Modules = make([]ModuleSchedule, 0, len(plan.Modules))
	for _, ms := range plan.Modules[:idx] {
		next.Modules = append(next.Modules, ms.clone())
	}
	next.Modules = append(next.Modules, moved...)
	next.Modules = append(next.Modules, downstream...)

	result := CascadeResult{Plan: next, AffectedCount: 1, Changed: []string{moduleID}}
	for i, ms := range downstream {
		before := plan.Modules[idx+1+i]
		if !sameSessions(before.Sessions, ms.Sessions) {
			result.AffectedCount++
			result.Changed = append(result.Changed, ms.Module.ID)
		}
	}
	return result, nil
}

// Reschedule regenerates the whole plan from plan.Start, used after the
// shift or the calendar changes.
func Reschedule(plan Plan, shift ShiftConfig, excluded calendar.ExcludedSet) (Plan, error) {
	scheduled, err := Generate(plan.ModuleList(), plan.Start, shift, excluded)
	if err != nil {
		return Plan{}, err
	}
	return Plan{ID: plan.ID, Certificate: plan.Certificate, Start: plan.Start, Modules: scheduled}, nil
}
