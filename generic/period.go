package generic

import "fmt"

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

// Period is an inclusive range of days [Start, End].
//
// Examples:
//   - Calendar window 2026: Jan 1 - Dec 31
//   - Plan span: first session - last session
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Validate rejects periods whose end precedes their start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Len is the number of days in the period, 0 when malformed.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// YEAR RANGE - Window a holiday calendar is expanded over
// =============================================================================

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	From int
	To   int
}

// SingleYear is the range covering only year.
func SingleYear(year int) YearRange { return YearRange{From: year, To: year} }

// Validate requires chronologically ordered, positive bounds.
func (r YearRange) Validate() error {
	if r.From <= 0 || r.To <= 0 {
		return &ConfigurationError{Field: "years", Value: r.String(), Err: ErrInvalidPeriod}
	}
	if r.To < r.From {
		return &ConfigurationError{Field: "years", Value: r.String(), Err: ErrInvalidPeriod}
	}
	return nil
}

// Years lists every year in the range.
func (r YearRange) Years() []int {
	var years []int
	for y := r.From; y <= r.To; y++ {
		years = append(years, y)
	}
	return years
}

// Period converts the range into the day period Jan 1 From .. Dec 31 To.
func (r YearRange) Period() Period {
	return Period{Start: StartOfYear(r.From), End: EndOfYear(r.To)}
}

// Covers reports whether every day of p lies inside the range.
func (r YearRange) Covers(p Period) bool {
	return r.Period().Contains(p.Start) && r.Period().Contains(p.End)
}

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}
