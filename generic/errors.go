/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Configuration errors - bad region, shift, date or module feed. Rejected
     before any generation attempt, never silently defaulted.
  2. Cascade ambiguity - no working day reachable within the look-ahead window.
  3. Lookup errors - unknown plan, module or holiday.

  Coherence problems in a plan are NOT errors: the verifier reports them
  as planner.Issue values.

USAGE:
    if errors.Is(err, generic.ErrUnknownRegion) {
        // ask the user to pick a region again
    }

SEE ALSO:
  - calendar/resolver.go: region validation
  - planner/generate.go: shift and module validation
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownRegion is returned for a region code outside the enumeration.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnknownSubregion is returned when a subregion is missing, unknown, or
	// supplied for a region without second-level holidays.
	ErrUnknownSubregion = errors.New("unknown subregion")

	// ErrInvalidHoursPerDay is returned when a shift yields no positive daily capacity.
	ErrInvalidHoursPerDay = errors.New("hours per day must be positive")

	// ErrInvalidDate is returned for malformed or missing dates.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned when a period or year range is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidModule is returned for modules with empty/duplicate IDs or negative hours.
	ErrInvalidModule = errors.New("invalid module")

	// ErrInvalidHoliday is returned for a local holiday without ID, name or date.
	ErrInvalidHoliday = errors.New("invalid holiday")

	// ErrOutsideWindow is returned when a plan keeps running past its holiday
	// window after the window was widened as far as allowed.
	ErrOutsideWindow = errors.New("plan runs past the holiday window")

	// ErrModuleNotFound is returned when a referenced module is not in the plan.
	ErrModuleNotFound = errors.New("module not found")

	// ErrPlanNotFound is returned when a plan ID is not in the workspace.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrHolidayNotFound is returned when a referenced holiday doesn't exist.
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrNoWorkingDay is returned when the look-ahead window holds no working day.
	ErrNoWorkingDay = errors.New("no working day within look-ahead window")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError names the offending input.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration error: %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// CascadeAmbiguityError reports a search for a working day that gave up.
type CascadeAmbiguityError struct {
	From TimePoint // where the search started
	Days int       // how many consecutive days were rejected
}

func (e *CascadeAmbiguityError) Error() string {
	return fmt.Sprintf("no working day within %d days of %s", e.Days, e.From)
}

func (e *CascadeAmbiguityError) Unwrap() error {
	return ErrNoWorkingDay
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigurationError returns true if the error is due to invalid configuration input.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce) ||
		errors.Is(err, ErrUnknownRegion) ||
		errors.Is(err, ErrUnknownSubregion) ||
		errors.Is(err, ErrInvalidHoursPerDay) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidModule) ||
		errors.Is(err, ErrInvalidHoliday) ||
		errors.Is(err, ErrOutsideWindow)
}

// IsCascadeAmbiguity returns true if no working day could be found.
func IsCascadeAmbiguity(err error) bool {
	return errors.Is(err, ErrNoWorkingDay)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}
