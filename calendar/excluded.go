package calendar

import (
	"sort"

	"github.com/warp/course-planner/generic"
)

// ExcludedSet is an immutable set of non-working dates. Weekends are not
// part of it; weekend exclusion is a shift policy.
type ExcludedSet struct {
	window generic.YearRange
	dates  map[generic.TimePoint]struct{}
}

// NewExcludedSet builds a set from explicit dates. Duplicates collapse.
func NewExcludedSet(window generic.YearRange, dates ...generic.TimePoint) ExcludedSet {
	set := ExcludedSet{window: window, dates: make(map[generic.TimePoint]struct{}, len(dates))}
	for _, d := range dates {
		set.dates[generic.FromTime(d.Time)] = struct{}{}
	}
	return set
}

// Contains reports whether date is excluded. The zero set excludes nothing.
func (s ExcludedSet) Contains(date generic.TimePoint) bool {
	_, ok := s.dates[generic.FromTime(date.Time)]
	return ok
}

func (s ExcludedSet) Len() int { return len(s.dates) }

// Window is the year range the set was resolved for.
func (s ExcludedSet) Window() generic.YearRange { return s.window }

// Dates returns the excluded dates in chronological order.
func (s ExcludedSet) Dates() []generic.TimePoint {
	out := make([]generic.TimePoint, 0, len(s.dates))
	for d := range s.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
