package calendar

import (
	"fmt"
	"time"

	"github.com/warp/course-planner/generic"
)

// =============================================================================
// RULES - How a named holiday becomes a concrete date in a given year
// =============================================================================

// RuleKind tags the variant held by a Rule.
type RuleKind int

const (
	// RuleFixed is the same month/day every year.
	RuleFixed RuleKind = iota
	// RuleEaster is an offset in days from Easter Sunday.
	RuleEaster
	// RuleNthWeekday is the Nth weekday of a month (N < 0 counts from the end).
	RuleNthWeekday
)

// Rule is a tagged variant; only the fields of its Kind are meaningful.
type Rule struct {
	Kind    RuleKind
	Name    string
	Month   time.Month   // RuleFixed, RuleNthWeekday
	Day     int          // RuleFixed
	Offset  int          // RuleEaster
	Weekday time.Weekday // RuleNthWeekday
	N       int          // RuleNthWeekday
}

func fixed(month time.Month, day int, name string) Rule {
	return Rule{Kind: RuleFixed, Month: month, Day: day, Name: name}
}

func easter(offset int, name string) Rule {
	return Rule{Kind: RuleEaster, Offset: offset, Name: name}
}

func nthWeekday(n int, weekday time.Weekday, month time.Month, name string) Rule {
	return Rule{Kind: RuleNthWeekday, N: n, Weekday: weekday, Month: month, Name: name}
}

// On resolves the rule for year.
func (r Rule) On(year int) generic.TimePoint {
	switch r.Kind {
	case RuleEaster:
		return EasterSunday(year).AddDays(r.Offset)
	case RuleNthWeekday:
		return nthWeekdayOf(year, r.Month, r.Weekday, r.N)
	default:
		return generic.NewTimePoint(year, r.Month, r.Day)
	}
}

func (r Rule) String() string {
	switch r.Kind {
	case RuleEaster:
		return fmt.Sprintf("%s (Easter%+d)", r.Name, r.Offset)
	case RuleNthWeekday:
		return fmt.Sprintf("%s (%d %s of %s)", r.Name, r.N, r.Weekday, r.Month)
	default:
		return fmt.Sprintf("%s (%02d-%02d)", r.Name, int(r.Month), r.Day)
	}
}

// EasterSunday computes Western Easter with the anonymous Gregorian algorithm.
func EasterSunday(year int) generic.TimePoint {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return generic.NewTimePoint(year, time.Month(month), day)
}

func nthWeekdayOf(year int, month time.Month, weekday time.Weekday, n int) generic.TimePoint {
	if n < 0 {
		last := generic.NewTimePoint(year, month+1, 1).AddDays(-1)
		back := (int(last.Weekday()) - int(weekday) + 7) % 7
		return last.AddDays(-back + 7*(n+1))
	}
	first := generic.NewTimePoint(year, month, 1)
	ahead := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDays(ahead + 7*(n-1))
}
