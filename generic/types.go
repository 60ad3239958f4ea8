/*
Package generic provides the domain-agnostic primitives of the course planner.

PURPOSE:
  Calendar days, periods, holiday calendars, hour quantities and the error
  taxonomy shared by the calendar resolver and the planning engine. Nothing
  in this package knows about regions, modules or shifts.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: decimal quantity of teaching hours
  - Decimal helpers for feeds and DTOs

DESIGN PRINCIPLES:
  1. Precision: uses decimal.Decimal so 4.5h shifts add up exactly
  2. Immutability: values are copied, never shared by pointer
  3. Day granularity: every date is a UTC calendar day

SEE ALSO:
  - time.go: TimePoint and HolidayCalendar
  - period.go: Period and YearRange
  - errors.go: error taxonomy
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Teaching hours
// =============================================================================

// Hours is a quantity of teaching hours.
type Hours = decimal.Decimal

// ZeroHours is the additive identity.
var ZeroHours = decimal.Zero

func NewHours(value float64) Hours { return decimal.NewFromFloat(value) }

func HoursFromInt(value int) Hours { return decimal.NewFromInt(int64(value)) }

// MinHours returns the smaller of a and b.
func MinHours(a, b Hours) Hours {
	if a.LessThan(b) {
		return a
	}
	return b
}

// SumHours adds up a list of quantities.
func SumHours(hs ...Hours) Hours {
	total := decimal.Zero
	for _, h := range hs {
		total = total.Add(h)
	}
	return total
}
