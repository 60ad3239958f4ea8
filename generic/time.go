package generic

import (
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction (sessions are scheduled per day)
// =============================================================================

// DateLayout is the ISO date layout used on every boundary (feeds, API, CLI).
const DateLayout = "2006-01-02"

// TimePoint is a calendar day in UTC. The zero value means "no date".
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date (YYYY-MM-DD). Malformed input is a configuration error.
func ParseDate(field, s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, &ConfigurationError{Field: field, Value: s, Err: ErrInvalidDate}
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (tp TimePoint) IsZero() bool { return tp.Time.IsZero() }

// ISOWeek returns the ISO 8601 year and week number.
func (tp TimePoint) ISOWeek() (year, week int) { return tp.Time.ISOWeek() }

// StartOfISOWeek returns the Monday of the week containing tp.
func (tp TimePoint) StartOfISOWeek() TimePoint {
	offset := (int(tp.Weekday()) + 6) % 7
	return tp.AddDays(-offset)
}

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(DateLayout)
}

// MarshalText renders the day as YYYY-MM-DD so TimePoint can key JSON maps.
func (tp TimePoint) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

// UnmarshalText accepts YYYY-MM-DD; an empty value leaves the zero TimePoint.
func (tp *TimePoint) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*tp = TimePoint{}
		return nil
	}
	parsed, err := ParseDate("date", string(b))
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR - Local (municipal) holidays layered on the regional table
// =============================================================================

// Holiday is a named non-working day. Scope is a locality code; empty means
// the holiday applies to every locality.
type Holiday struct {
	ID        string
	Scope     string
	Date      TimePoint
	Name      string
	Recurring bool // true = same month/day every year
}

// ValidateHoliday rejects holidays that cannot be stored.
func ValidateHoliday(h Holiday) error {
	switch {
	case strings.TrimSpace(h.ID) == "":
		return &ConfigurationError{Field: "id", Err: ErrInvalidHoliday}
	case strings.TrimSpace(h.Name) == "":
		return &ConfigurationError{Field: "name", Err: ErrInvalidHoliday}
	case h.Date.IsZero():
		return &ConfigurationError{Field: "date", Err: ErrInvalidHoliday}
	}
	return nil
}

// OccursIn returns the concrete date of the holiday in year, if any.
func (h Holiday) OccursIn(year int) (TimePoint, bool) {
	if h.Recurring {
		d := NewTimePoint(year, h.Date.Month(), h.Date.Day())
		// Feb 29 on a non-leap year normalizes into March; drop it.
		if d.Month() != h.Date.Month() {
			return TimePoint{}, false
		}
		return d, true
	}
	if h.Date.Year() == year {
		return h.Date, true
	}
	return TimePoint{}, false
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// GetHolidays returns all holidays for a scope in a given year, with
	// recurring entries already moved to that year. Scope-specific holidays
	// and global ones (empty scope) both count; an empty scope gets only the
	// global ones. A failed read is an error, never an empty calendar.
	GetHolidays(scope string, year int) ([]Holiday, error)
}

// DefaultHolidayCalendar is a no-op calendar for when no local data is configured.
type DefaultHolidayCalendar struct{}

func (d *DefaultHolidayCalendar) GetHolidays(scope string, year int) ([]Holiday, error) {
	return nil, nil
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }
func StartOfYear(year int) TimePoint     { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint       { return NewTimePoint(year, time.December, 31) }
