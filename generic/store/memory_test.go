package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/course-planner/generic"
)

func TestMemory_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SaveHoliday(ctx, generic.Holiday{ID: "b", Scope: "38023", Date: generic.NewTimePoint(2026, time.September, 14), Name: "Cristo"}))
	require.NoError(t, m.SaveHoliday(ctx, generic.Holiday{ID: "a", Scope: "38023", Date: generic.NewTimePoint(2026, time.February, 2), Name: "Candelaria"}))
	require.NoError(t, m.SaveHoliday(ctx, generic.Holiday{ID: "c", Scope: "28079", Date: generic.NewTimePoint(2026, time.May, 15), Name: "San Isidro"}))

	all, err := m.ListHolidays(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)

	laguna, err := m.ListHolidays(ctx, "38023")
	require.NoError(t, err)
	assert.Len(t, laguna, 2)

	require.NoError(t, m.DeleteHoliday(ctx, "a"))
	assert.ErrorIs(t, m.DeleteHoliday(ctx, "a"), generic.ErrHolidayNotFound)
	assert.ErrorIs(t, m.SaveHoliday(ctx, generic.Holiday{ID: "x"}), generic.ErrInvalidHoliday)
}

func TestMemory_CalendarView(t *testing.T) {
	// GIVEN: one global recurring holiday and one locality holiday
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SaveHoliday(ctx, generic.Holiday{ID: "g", Date: generic.NewTimePoint(2020, time.December, 24), Name: "Nochebuena", Recurring: true}))
	require.NoError(t, m.SaveHoliday(ctx, generic.Holiday{ID: "l", Scope: "38023", Date: generic.NewTimePoint(2026, time.July, 22), Name: "Fiesta"}))

	// THEN: the global one applies everywhere, projected onto the asked year
	got, err := m.GetHolidays("38023", 2026)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-07-22", got[0].Date.String())
	assert.Equal(t, "2026-12-24", got[1].Date.String())

	for _, tc := range []struct {
		scope string
		year  int
		want  int
	}{
		{"28079", 2026, 1},
		{"38023", 2027, 1},
		{"", 2026, 1},
	} {
		hs, err := m.GetHolidays(tc.scope, tc.year)
		require.NoError(t, err)
		assert.Len(t, hs, tc.want, "%q %d", tc.scope, tc.year)
	}
}
