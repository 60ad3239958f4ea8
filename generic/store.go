/*
store.go - Persistence interface for local holidays

PURPOSE:
  Regional and national holidays come from the calendar table. Municipal
  holidays vary per locality and are entered by users, so they live in a
  store. The calendar resolver only needs the read side (HolidayCalendar);
  the HTTP shell also writes through HolidayStore.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing and the CLI

EXAMPLE:
  st, _ := sqlite.New("./planner.db")
  err := st.SaveHoliday(ctx, generic.Holiday{ID: "h1", Scope: "38038", ...})
  resolver := calendar.NewResolver(st)

SEE ALSO:
  - time.go: HolidayCalendar
  - calendar/resolver.go: consumer
*/
package generic

import "context"

// =============================================================================
// HOLIDAY STORE - Read/write access to local holidays
// =============================================================================

// HolidayStore extends HolidayCalendar with management operations.
type HolidayStore interface {
	HolidayCalendar

	// SaveHoliday inserts or replaces a holiday by ID.
	SaveHoliday(ctx context.Context, h Holiday) error

	// DeleteHoliday removes a holiday. Returns ErrHolidayNotFound if absent.
	DeleteHoliday(ctx context.Context, id string) error

	// ListHolidays returns stored holidays for scope (all scopes when empty),
	// ordered by date.
	ListHolidays(ctx context.Context, scope string) ([]Holiday, error)
}
