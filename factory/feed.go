/*
Package factory provides JSON to Go feed conversion.

PURPOSE:
  Converts the JSON produced by the document-parsing step (modules and their
  hours) plus the user's region and shift selection into the values the
  calendar resolver and the planner consume. Parsing the source documents
  themselves happens elsewhere; this is only the contract at the boundary.

JSON SCHEMA:
  {
    "certificate": "ADGD0108",
    "start_date": "2026-07-21",
    "region": {"region": "CN", "subregion": "TF", "locality": "38023"},
    "years": {"from": 2026, "to": 2027},
    "shift": {
      "start_time": "09:00",
      "end_time": "14:00",
      "fixed_hours": 0,
      "allow_weekends": false,
      "allow_holidays": false
    },
    "modules": [
      {"id": "MF0973_1", "code": "MF0973_1", "title": "Grabación de datos", "hours": 90}
    ]
  }

KEY FEATURES:
  - Validates dates, hours and region codes up front
  - Defaults the year window to the start year and the next one
  - Never defaults the region: a missing code is a configuration error

USAGE:
  factory := NewFeedFactory()
  feed, err := factory.ParseFeed(jsonString)
  excluded, err := cache.Resolve(feed.Selector, feed.Years)
  plan, err := planner.NewPlan(id, feed.Certificate, feed.Modules, feed.Start, feed.Shift, excluded)

SEE ALSO:
  - planner/types.go: Module and Plan
  - calendar/resolver.go: Selector
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/planner"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// FeedJSON is the JSON representation of a certificate to schedule.
type FeedJSON struct {
	Certificate string       `json:"certificate"`
	StartDate   string       `json:"start_date"`
	Region      RegionJSON   `json:"region"`
	Years       *YearsJSON   `json:"years,omitempty"`
	Shift       ShiftJSON    `json:"shift"`
	Modules     []ModuleJSON `json:"modules"`
}

// RegionJSON selects the holiday calendar.
type RegionJSON struct {
	Region    string `json:"region"`
	Subregion string `json:"subregion,omitempty"`
	Locality  string `json:"locality,omitempty"`
}

// YearsJSON is the holiday window.
type YearsJSON struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ShiftJSON is the daily shift (turno).
type ShiftJSON struct {
	StartTime     string  `json:"start_time,omitempty"`
	EndTime       string  `json:"end_time,omitempty"`
	FixedHours    float64 `json:"fixed_hours,omitempty"`
	AllowWeekends bool    `json:"allow_weekends"`
	AllowHolidays bool    `json:"allow_holidays"`
}

// ModuleJSON is one row of the module/hours feed.
type ModuleJSON struct {
	ID    string  `json:"id"`
	Code  string  `json:"code,omitempty"` // defaults to ID
	Title string  `json:"title,omitempty"`
	Hours float64 `json:"hours"`
}

// =============================================================================
// FEED - Converted, validated inputs
// =============================================================================

// Feed holds everything needed to generate a plan.
type Feed struct {
	Certificate string
	Start       generic.TimePoint
	Selector    calendar.Selector
	Years       generic.YearRange
	Shift       planner.ShiftConfig
	Modules     []planner.Module
}

// =============================================================================
// FEED FACTORY
// =============================================================================

// FeedFactory converts JSON feeds to Go structs.
type FeedFactory struct {
	// YearsAhead closes the default holiday window: start year + YearsAhead.
	YearsAhead int
}

// NewFeedFactory creates a new feed factory.
func NewFeedFactory() *FeedFactory {
	return &FeedFactory{YearsAhead: 1}
}

// ParseFeed parses a JSON string into a Feed.
func (f *FeedFactory) ParseFeed(jsonStr string) (*Feed, error) {
	var fj FeedJSON
	if err := json.Unmarshal([]byte(jsonStr), &fj); err != nil {
		return nil, fmt.Errorf("failed to parse feed JSON: %w", err)
	}
	return f.FromJSON(fj)
}

// FromJSON converts FeedJSON into a validated Feed.
func (f *FeedFactory) FromJSON(fj FeedJSON) (*Feed, error) {
	start, err := generic.ParseDate("start_date", fj.StartDate)
	if err != nil {
		return nil, err
	}

	selector := SelectorFromJSON(fj.Region)
	if _, err := selector.Validate(); err != nil {
		return nil, err
	}

	years := generic.YearRange{From: start.Year(), To: start.Year() + f.YearsAhead}
	if fj.Years != nil {
		years = generic.YearRange{From: fj.Years.From, To: fj.Years.To}
	}
	if err := years.Validate(); err != nil {
		return nil, err
	}

	shift := ShiftFromJSON(fj.Shift)
	if _, err := shift.HoursPerDay(); err != nil {
		return nil, err
	}

	modules := make([]planner.Module, 0, len(fj.Modules))
	for i, mj := range fj.Modules {
		m, err := moduleFromJSON(i, mj)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	return &Feed{
		Certificate: fj.Certificate,
		Start:       start,
		Selector:    selector,
		Years:       years,
		Shift:       shift,
		Modules:     modules,
	}, nil
}

// SelectorFromJSON normalizes region codes.
func SelectorFromJSON(rj RegionJSON) calendar.Selector {
	return calendar.Selector{
		Region:    calendar.Region(rj.Region),
		Subregion: calendar.Subregion(rj.Subregion),
		Locality:  rj.Locality,
	}.Normalize()
}

// ShiftFromJSON converts a shift without validating it.
func ShiftFromJSON(sj ShiftJSON) planner.ShiftConfig {
	return planner.ShiftConfig{
		StartTime:     strings.TrimSpace(sj.StartTime),
		EndTime:       strings.TrimSpace(sj.EndTime),
		FixedHours:    decimal.NewFromFloat(sj.FixedHours),
		AllowWeekends: sj.AllowWeekends,
		AllowHolidays: sj.AllowHolidays,
	}
}

func moduleFromJSON(i int, mj ModuleJSON) (planner.Module, error) {
	id := strings.TrimSpace(mj.ID)
	if id == "" {
		return planner.Module{}, &generic.ConfigurationError{Field: fmt.Sprintf("modules[%d].id", i), Err: generic.ErrInvalidModule}
	}
	if mj.Hours < 0 {
		return planner.Module{}, &generic.ConfigurationError{Field: fmt.Sprintf("modules[%d].hours", i), Value: fmt.Sprint(mj.Hours), Err: generic.ErrInvalidModule}
	}
	code := strings.TrimSpace(mj.Code)
	if code == "" {
		code = id
	}
	return planner.Module{
		ID:         id,
		Code:       code,
		Title:      mj.Title,
		TotalHours: decimal.NewFromFloat(mj.Hours),
	}, nil
}

// ToJSON converts a Feed back to its JSON form.
func (f *FeedFactory) ToJSON(feed *Feed) FeedJSON {
	fj := FeedJSON{
		Certificate: feed.Certificate,
		StartDate:   feed.Start.String(),
		Region: RegionJSON{
			Region:    string(feed.Selector.Region),
			Subregion: string(feed.Selector.Subregion),
			Locality:  feed.Selector.Locality,
		},
		Years: &YearsJSON{From: feed.Years.From, To: feed.Years.To},
		Shift: ShiftToJSON(feed.Shift),
	}
	for _, m := range feed.Modules {
		fj.Modules = append(fj.Modules, ModuleJSON{
			ID:    m.ID,
			Code:  m.Code,
			Title: m.Title,
			Hours: m.TotalHours.InexactFloat64(),
		})
	}
	return fj
}

// ShiftToJSON is the inverse of ShiftFromJSON.
func ShiftToJSON(s planner.ShiftConfig) ShiftJSON {
	return ShiftJSON{
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		FixedHours:    s.FixedHours.InexactFloat64(),
		AllowWeekends: s.AllowWeekends,
		AllowHolidays: s.AllowHolidays,
	}
}
