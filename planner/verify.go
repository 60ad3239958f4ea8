/*
verify.go - Coherence verifier

PURPOSE:
  Scans a plan and reports every problem it finds. Checks are independent
  and all of them run; the verifier never returns an error. An empty result
  means the plan is clean.

CHECKS:
  overlap / capacity  per-date hours above the shift capacity
  hours_mismatch      module sessions not adding up to the declared total
  policy              session on a weekend or excluded date without permit
  order               sessions of a module not in chronological order
  shift_config        shift has no valid capacity (capacity checks skipped)

SEE ALSO:
  - generate.go: produces plans that pass every check
*/
package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/generic"
)

// Severity tells the UI whether an issue blocks committing the plan.
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityAdvisory Severity = "advisory"
)

// IssueCode classifies an issue.
type IssueCode string

const (
	IssueShiftConfig   IssueCode = "shift_config"
	IssueOverlap       IssueCode = "overlap"
	IssueCapacity      IssueCode = "capacity"
	IssueHoursMismatch IssueCode = "hours_mismatch"
	IssuePolicy        IssueCode = "policy"
	IssueOrder         IssueCode = "order"
)

var issueRank = map[IssueCode]int{
	IssueShiftConfig:   0,
	IssueOverlap:       1,
	IssueCapacity:      2,
	IssueHoursMismatch: 3,
	IssuePolicy:        4,
	IssueOrder:         5,
}

// Issue is a coherence problem with enough data to deep-link to the cell.
type Issue struct {
	Code     IssueCode
	Severity Severity
	Message  string
	Date     generic.TimePoint // zero when the issue is not tied to a day
	// ModuleID is the first module involved; ModuleIDs/ModuleCodes list all
	// of them in plan order.
	ModuleID    string
	ModuleIDs   []string
	ModuleCodes []string
}

// HasBlocking reports whether any issue blocks the plan.
func HasBlocking(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityBlocking {
			return true
		}
	}
	return false
}

// Verify runs every check over plan.
func Verify(plan Plan, shift ShiftConfig, excluded calendar.ExcludedSet) []Issue {
	var issues []Issue

	if hoursPerDay, err := shift.HoursPerDay(); err != nil {
		issues = append(issues, Issue{
			Code:     IssueShiftConfig,
			Severity: SeverityBlocking,
			Message:  fmt.Sprintf("shift has no valid daily capacity: %v", err),
		})
	} else {
		issues = append(issues, checkCapacity(plan, hoursPerDay)...)
	}
	issues = append(issues, checkHours(plan)...)
	issues = append(issues, checkPolicy(plan, shift, excluded)...)
	issues = append(issues, checkOrder(plan)...)

	sort.SliceStable(issues, func(i, j int) bool {
		if issueRank[issues[i].Code] != issueRank[issues[j].Code] {
			return issueRank[issues[i].Code] < issueRank[issues[j].Code]
		}
		return issues[i].Date.Before(issues[j].Date)
	})
	return issues
}

type dayLoad struct {
	hours   generic.Hours
	modules []int // plan indexes, first-seen order
}

func checkCapacity(plan Plan, hoursPerDay generic.Hours) []Issue {
	loads := make(map[generic.TimePoint]*dayLoad)
	for i, ms := range plan.Modules {
		for _, s := range ms.Sessions {
			day := generic.FromTime(s.Date.Time)
			load, ok := loads[day]
			if !ok {
				load = &dayLoad{hours: generic.ZeroHours}
				loads[day] = load
			}
			load.hours = load.hours.Add(s.Hours)
			if len(load.modules) == 0 || load.modules[len(load.modules)-1] != i {
				load.modules = append(load.modules, i)
			}
		}
	}

	var issues []Issue
	for day, load := range loads {
		if !load.hours.GreaterThan(hoursPerDay) {
			continue
		}
		ids, codes := moduleRefs(plan, load.modules)
		is := Issue{
			Severity:    SeverityBlocking,
			Date:        day,
			ModuleID:    ids[0],
			ModuleIDs:   ids,
			ModuleCodes: codes,
		}
		if len(ids) > 1 {
			is.Code = IssueOverlap
			is.Message = fmt.Sprintf("%s: %s share the day with %sh scheduled, capacity is %sh",
				day, strings.Join(codes, ", "), load.hours, hoursPerDay)
		} else {
			is.Code = IssueCapacity
			is.Message = fmt.Sprintf("%s: %s has %sh scheduled, capacity is %sh",
				day, codes[0], load.hours, hoursPerDay)
		}
		issues = append(issues, is)
	}
	return issues
}

func checkHours(plan Plan) []Issue {
	var issues []Issue
	for _, ms := range plan.Modules {
		scheduled := ms.ScheduledHours()
		if scheduled.Equal(ms.Module.TotalHours) {
			continue
		}
		issues = append(issues, Issue{
			Code:        IssueHoursMismatch,
			Severity:    SeverityBlocking,
			Message:     fmt.Sprintf("%s: %sh scheduled, %sh declared", ms.Module.Code, scheduled, ms.Module.TotalHours),
			ModuleID:    ms.Module.ID,
			ModuleIDs:   []string{ms.Module.ID},
			ModuleCodes: []string{ms.Module.Code},
		})
	}
	return issues
}

func checkPolicy(plan Plan, shift ShiftConfig, excluded calendar.ExcludedSet) []Issue {
	var issues []Issue
	for _, ms := range plan.Modules {
		for _, s := range ms.Sessions {
			var reason string
			switch {
			case !shift.AllowHolidays && excluded.Contains(s.Date):
				reason = "holiday"
			case !shift.AllowWeekends && s.Date.IsWeekend():
				reason = "weekend"
			default:
				continue
			}
			issues = append(issues, Issue{
				Code:        IssuePolicy,
				Severity:    SeverityAdvisory,
				Message:     fmt.Sprintf("%s: %s session falls on a %s", s.Date, ms.Module.Code, reason),
				Date:        s.Date,
				ModuleID:    ms.Module.ID,
				ModuleIDs:   []string{ms.Module.ID},
				ModuleCodes: []string{ms.Module.Code},
			})
		}
	}
	return issues
}

func checkOrder(plan Plan) []Issue {
	var issues []Issue
	for _, ms := range plan.Modules {
		for i := 1; i < len(ms.Sessions); i++ {
			if !ms.Sessions[i].Date.Before(ms.Sessions[i-1].Date) {
				continue
			}
			issues = append(issues, Issue{
				Code:        IssueOrder,
				Severity:    SeverityAdvisory,
				Message:     fmt.Sprintf("%s: session on %s listed after %s", ms.Module.Code, ms.Sessions[i].Date, ms.Sessions[i-1].Date),
				Date:        ms.Sessions[i].Date,
				ModuleID:    ms.Module.ID,
				ModuleIDs:   []string{ms.Module.ID},
				ModuleCodes: []string{ms.Module.Code},
			})
		}
	}
	return issues
}

func moduleRefs(plan Plan, indexes []int) (ids, codes []string) {
	sorted := append([]int(nil), indexes...)
	sort.Ints(sorted)
	var prev = -1
	for _, i := range sorted {
		if i == prev {
			continue
		}
		prev = i
		ids = append(ids, plan.Modules[i].Module.ID)
		codes = append(codes, plan.Modules[i].Module.Code)
	}
	return ids, codes
}
