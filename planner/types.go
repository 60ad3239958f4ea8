// Package planner schedules training modules into dated sessions.
// It uses the generic primitives and a calendar.ExcludedSet; every engine
// function is pure and returns new values instead of mutating its input.
package planner

import (
	"github.com/warp/course-planner/generic"
)

// =============================================================================
// MODULE - Unit of training with a fixed hour total
// =============================================================================

// Module is a training module (MF) as delivered by the feed.
type Module struct {
	ID         string
	Code       string
	Title      string
	TotalHours generic.Hours
}

// =============================================================================
// SESSION - One teaching day of a module
// =============================================================================

// Session is a day on which a module is taught.
type Session struct {
	ModuleID string
	Date     generic.TimePoint
	Hours    generic.Hours
}

func (s Session) equal(o Session) bool {
	return s.ModuleID == o.ModuleID && s.Date.Equal(o.Date) && s.Hours.Equal(o.Hours)
}

// ModuleSchedule is a module plus its sessions in chronological order.
type ModuleSchedule struct {
	Module   Module
	Sessions []Session
}

// ScheduledHours sums the hours of every session.
func (ms ModuleSchedule) ScheduledHours() generic.Hours {
	hours := make([]generic.Hours, len(ms.Sessions))
	for i, s := range ms.Sessions {
		hours[i] = s.Hours
	}
	return generic.SumHours(hours...)
}

// Complete reports whether the scheduled hours match the declared total.
func (ms ModuleSchedule) Complete() bool {
	return ms.ScheduledHours().Equal(ms.Module.TotalHours)
}

// Span returns the first and last session dates; ok is false without sessions.
func (ms ModuleSchedule) Span() (first, last generic.TimePoint, ok bool) {
	if len(ms.Sessions) == 0 {
		return generic.TimePoint{}, generic.TimePoint{}, false
	}
	first, last = ms.Sessions[0].Date, ms.Sessions[0].Date
	for _, s := range ms.Sessions[1:] {
		if s.Date.Before(first) {
			first = s.Date
		}
		if s.Date.After(last) {
			last = s.Date
		}
	}
	return first, last, true
}

func (ms ModuleSchedule) clone() ModuleSchedule {
	out := ModuleSchedule{Module: ms.Module}
	if ms.Sessions != nil {
		out.Sessions = append([]Session(nil), ms.Sessions...)
	}
	return out
}

func sameSessions(a, b []Session) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}

// =============================================================================
// PLAN - Ordered modules of one certificate
// =============================================================================

// Plan is the long-lived root owned by the caller. Engines take it by value
// and hand back a replacement.
type Plan struct {
	ID          string
	Certificate string
	Start       generic.TimePoint
	Modules     []ModuleSchedule
}

// Clone deep-copies the session slices so the copy can be edited freely.
func (p Plan) Clone() Plan {
	out := p
	out.Modules = make([]ModuleSchedule, len(p.Modules))
	for i, ms := range p.Modules {
		out.Modules[i] = ms.clone()
	}
	return out
}

// IndexOf returns the position of the module, or -1.
func (p Plan) IndexOf(moduleID string) int {
	for i, ms := range p.Modules {
		if ms.Module.ID == moduleID {
			return i
		}
	}
	return -1
}

// ModuleList returns the modules in plan order.
func (p Plan) ModuleList() []Module {
	out := make([]Module, len(p.Modules))
	for i, ms := range p.Modules {
		out[i] = ms.Module
	}
	return out
}

// Sessions flattens every session in plan order.
func (p Plan) Sessions() []Session {
	var out []Session
	for _, ms := range p.Modules {
		out = append(out, ms.Sessions...)
	}
	return out
}
