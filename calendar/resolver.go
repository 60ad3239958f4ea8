/*
Package calendar resolves the non-working dates of a region.

PURPOSE:
  Turns a region/subregion/locality selection and a year window into the
  concrete set of holiday dates the planner must skip. National, regional
  and island holidays come from a static rule table; municipal holidays
  come from an optional HolidayCalendar (sqlite or memory store).

RULES:
  Holidays are tagged variants (fixed day, Easter offset, Nth weekday) and
  are expanded per year with no external almanac. Weekends are never part
  of the result: a "work weekends" shift reuses the same set.

FAILURES:
  Unknown region or subregion codes are configuration errors. Nothing is
  defaulted.

SEE ALSO:
  - regions.go: rule table
  - cache.go: process-wide cache keyed by selector and years
*/
package calendar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/course-planner/generic"
)

// Level tells where a holiday comes from.
type Level string

const (
	LevelNational  Level = "national"
	LevelRegional  Level = "regional"
	LevelSubregion Level = "subregional"
	LevelLocal     Level = "local"
)

// Holiday is a resolved, dated holiday.
type Holiday struct {
	Date  generic.TimePoint
	Name  string
	Level Level
}

// Selector picks the calendar to resolve.
type Selector struct {
	Region    Region
	Subregion Subregion
	Locality  string // optional municipal scope for stored holidays
}

// Normalize upper-cases codes and trims whitespace.
func (s Selector) Normalize() Selector {
	return Selector{
		Region:    Region(strings.ToUpper(strings.TrimSpace(string(s.Region)))),
		Subregion: Subregion(strings.ToUpper(strings.TrimSpace(string(s.Subregion)))),
		Locality:  strings.TrimSpace(s.Locality),
	}
}

// Validate checks the codes against the region table.
func (s Selector) Validate() (RegionInfo, error) {
	info, ok := Lookup(s.Region)
	if !ok {
		return RegionInfo{}, &generic.ConfigurationError{Field: "region", Value: string(s.Region), Err: generic.ErrUnknownRegion}
	}
	if !info.RequiresSubregion() {
		if s.Subregion != "" {
			return RegionInfo{}, &generic.ConfigurationError{Field: "subregion", Value: string(s.Subregion), Err: generic.ErrUnknownSubregion}
		}
		return info, nil
	}
	if _, ok := info.Subregions[s.Subregion]; !ok {
		return RegionInfo{}, &generic.ConfigurationError{Field: "subregion", Value: string(s.Subregion), Err: generic.ErrUnknownSubregion}
	}
	return info, nil
}

func (s Selector) String() string {
	parts := []string{string(s.Region)}
	if s.Subregion != "" {
		parts = append(parts, string(s.Subregion))
	}
	if s.Locality != "" {
		parts = append(parts, s.Locality)
	}
	return strings.Join(parts, "/")
}

// Resolver expands the rule table plus optional local holidays.
type Resolver struct {
	local generic.HolidayCalendar
}

// NewResolver creates a resolver. local may be nil.
func NewResolver(local generic.HolidayCalendar) *Resolver {
	if local == nil {
		local = &generic.DefaultHolidayCalendar{}
	}
	return &Resolver{local: local}
}

// Resolve is shorthand for a resolver without local holidays.
func Resolve(sel Selector, years generic.YearRange) (ExcludedSet, error) {
	return NewResolver(nil).Resolve(sel, years)
}

// Resolve returns the excluded dates for sel over years.
func (r *Resolver) Resolve(sel Selector, years generic.YearRange) (ExcludedSet, error) {
	holidays, err := r.Holidays(sel, years)
	if err != nil {
		return ExcludedSet{}, err
	}
	dates := make([]generic.TimePoint, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date
	}
	return NewExcludedSet(years, dates...), nil
}

// Holidays returns every named holiday for sel over years, ordered by date.
// A date shared by several holidays is listed once per holiday.
func (r *Resolver) Holidays(sel Selector, years generic.YearRange) ([]Holiday, error) {
	sel = sel.Normalize()
	if err := years.Validate(); err != nil {
		return nil, err
	}
	info, err := sel.Validate()
	if err != nil {
		return nil, err
	}

	var out []Holiday
	for _, year := range years.Years() {
		out = appendRules(out, national, year, LevelNational)
		out = appendRules(out, info.Rules, year, LevelRegional)
		if sub, ok := info.Subregions[sel.Subregion]; ok {
			out = appendRules(out, sub.Rules, year, LevelSubregion)
		}
		// An empty locality still picks up holidays stored for every locality.
		local, err := r.local.GetHolidays(sel.Locality, year)
		if err != nil {
			return nil, fmt.Errorf("local holidays for %s: %w", sel, err)
		}
		for _, h := range local {
			out = append(out, Holiday{Date: h.Date, Name: h.Name, Level: LevelLocal})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func appendRules(out []Holiday, rules []Rule, year int, level Level) []Holiday {
	for _, rule := range rules {
		out = append(out, Holiday{Date: rule.On(year), Name: rule.Name, Level: level})
	}
	return out
}

func (h Holiday) String() string {
	return fmt.Sprintf("%s %s (%s)", h.Date, h.Name, h.Level)
}
