package planner

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/generic"
)

// MaxLookaheadDays bounds every search for a working day.
const MaxLookaheadDays = 366

const clockLayout = "15:04"

// =============================================================================
// SHIFT CONFIG - Daily capacity and weekend/holiday policy (turno)
// =============================================================================

// ShiftConfig is the daily shift. FixedHours wins over the clock times when positive.
type ShiftConfig struct {
	StartTime     string // "HH:MM"
	EndTime       string // "HH:MM"
	FixedHours    generic.Hours
	AllowWeekends bool
	AllowHolidays bool
}

// HoursPerDay derives the daily capacity. A non-positive result is a
// configuration error.
func (s ShiftConfig) HoursPerDay() (generic.Hours, error) {
	if s.FixedHours.IsPositive() {
		return s.FixedHours, nil
	}
	if s.FixedHours.IsNegative() {
		return generic.ZeroHours, &generic.ConfigurationError{Field: "fixed_hours", Value: s.FixedHours.String(), Err: generic.ErrInvalidHoursPerDay}
	}

	start, err := time.Parse(clockLayout, s.StartTime)
	if err != nil {
		return generic.ZeroHours, &generic.ConfigurationError{Field: "start_time", Value: s.StartTime, Err: generic.ErrInvalidHoursPerDay}
	}
	end, err := time.Parse(clockLayout, s.EndTime)
	if err != nil {
		return generic.ZeroHours, &generic.ConfigurationError{Field: "end_time", Value: s.EndTime, Err: generic.ErrInvalidHoursPerDay}
	}

	minutes := int64(end.Sub(start) / time.Minute)
	if minutes <= 0 {
		return generic.ZeroHours, &generic.ConfigurationError{Field: "end_time", Value: s.EndTime, Err: generic.ErrInvalidHoursPerDay}
	}
	return decimal.NewFromInt(minutes).DivRound(decimal.NewFromInt(60), 2), nil
}

// IsWorkingDay applies the weekend and holiday permits to date. A holiday on
// a weekend is a single non-working day, never two.
func (s ShiftConfig) IsWorkingDay(date generic.TimePoint, excluded calendar.ExcludedSet) bool {
	if date.IsWeekend() && !s.AllowWeekends {
		return false
	}
	if !s.AllowHolidays && excluded.Contains(date) {
		return false
	}
	return true
}

// NextWorkingDay returns the first working day on or after from.
func (s ShiftConfig) NextWorkingDay(from generic.TimePoint, excluded calendar.ExcludedSet) (generic.TimePoint, error) {
	day := from
	for skipped := 0; !s.IsWorkingDay(day, excluded); skipped++ {
		if skipped >= MaxLookaheadDays {
			return generic.TimePoint{}, &generic.CascadeAmbiguityError{From: from, Days: skipped}
		}
		day = day.AddDays(1)
	}
	return day, nil
}

// AddWorkingDays moves n working days forward from a working day.
func (s ShiftConfig) AddWorkingDays(from generic.TimePoint, n int, excluded calendar.ExcludedSet) (generic.TimePoint, error) {
	day, err := s.NextWorkingDay(from, excluded)
	if err != nil {
		return generic.TimePoint{}, err
	}
	for i := 0; i < n; i++ {
		if day, err = s.NextWorkingDay(day.AddDays(1), excluded); err != nil {
			return generic.TimePoint{}, err
		}
	}
	return day, nil
}
