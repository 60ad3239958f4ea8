package generic

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TIME POINT
// =============================================================================

func TestTimePoint_ParseAndFormat(t *testing.T) {
	d, err := ParseDate("start_date", "2026-07-21")
	require.NoError(t, err)
	assert.Equal(t, time.Tuesday, d.Weekday())
	assert.Equal(t, "2026-07-21", d.String())
	assert.False(t, d.IsWeekend())
	assert.True(t, d.AddDays(4).IsWeekend())

	_, err = ParseDate("start_date", "21/07/2026")
	assert.True(t, IsConfigurationError(err))
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.Equal(t, "", TimePoint{}.String())
}

func TestTimePoint_FromTimeDropsClock(t *testing.T) {
	loc := time.FixedZone("Atlantic/Canary", 3600)
	d := FromTime(time.Date(2026, 8, 5, 23, 30, 0, 0, loc))
	assert.True(t, d.Equal(NewTimePoint(2026, time.August, 5)))
}

func TestTimePoint_ISOWeek(t *testing.T) {
	// Sunday 2026-08-16 belongs to the week starting Monday 2026-08-10
	d := NewTimePoint(2026, time.August, 16)
	assert.Equal(t, "2026-08-10", d.StartOfISOWeek().String())
	assert.Equal(t, "2026-08-10", NewTimePoint(2026, time.August, 10).StartOfISOWeek().String())
}

func TestTimePoint_TextKeys(t *testing.T) {
	in := map[TimePoint]int{NewTimePoint(2026, time.January, 6): 1}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2026-01-06": 1}`, string(raw))

	var out map[TimePoint]int
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

// =============================================================================
// PERIOD AND YEAR RANGE
// =============================================================================

func TestPeriod(t *testing.T) {
	p := Period{Start: NewTimePoint(2026, time.December, 30), End: NewTimePoint(2027, time.January, 2)}
	require.NoError(t, p.Validate())
	assert.Equal(t, 4, p.Len())
	assert.True(t, p.Contains(NewTimePoint(2027, time.January, 1)))
	assert.False(t, p.Contains(NewTimePoint(2027, time.January, 3)))

	bad := Period{Start: p.End, End: p.Start}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPeriod)
	assert.Equal(t, 0, bad.Len())
}

func TestYearRange(t *testing.T) {
	r := YearRange{From: 2026, To: 2027}
	require.NoError(t, r.Validate())
	assert.Equal(t, []int{2026, 2027}, r.Years())
	assert.True(t, r.Covers(Period{Start: NewTimePoint(2026, time.July, 21), End: NewTimePoint(2027, time.March, 1)}))
	assert.False(t, r.Covers(Period{Start: NewTimePoint(2026, time.July, 21), End: NewTimePoint(2028, time.January, 1)}))

	for _, bad := range []YearRange{{From: 2027, To: 2026}, {From: 0, To: 2026}} {
		err := bad.Validate()
		assert.True(t, IsConfigurationError(err), bad.String())
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHoliday_OccursIn(t *testing.T) {
	once := Holiday{ID: "h1", Date: NewTimePoint(2026, time.July, 22), Name: "Fiesta"}
	d, ok := once.OccursIn(2026)
	assert.True(t, ok)
	assert.Equal(t, "2026-07-22", d.String())
	_, ok = once.OccursIn(2027)
	assert.False(t, ok)

	yearly := Holiday{ID: "h2", Date: NewTimePoint(2020, time.May, 15), Name: "San Isidro", Recurring: true}
	d, ok = yearly.OccursIn(2027)
	assert.True(t, ok)
	assert.Equal(t, "2027-05-15", d.String())

	leap := Holiday{ID: "h3", Date: NewTimePoint(2024, time.February, 29), Name: "Leap", Recurring: true}
	_, ok = leap.OccursIn(2026)
	assert.False(t, ok)
	_, ok = leap.OccursIn(2028)
	assert.True(t, ok)
}

func TestValidateHoliday(t *testing.T) {
	valid := Holiday{ID: "h1", Date: NewTimePoint(2026, time.July, 22), Name: "Fiesta"}
	require.NoError(t, ValidateHoliday(valid))

	noID, noName, noDate := valid, valid, valid
	noID.ID = " "
	noName.Name = ""
	noDate.Date = TimePoint{}
	for _, h := range []Holiday{noID, noName, noDate} {
		err := ValidateHoliday(h)
		assert.ErrorIs(t, err, ErrInvalidHoliday)
		assert.True(t, IsConfigurationError(err))
	}
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	amb := &CascadeAmbiguityError{From: NewTimePoint(2026, time.August, 1), Days: 366}
	assert.True(t, IsCascadeAmbiguity(amb))
	assert.False(t, IsConfigurationError(amb))
	assert.Equal(t, "no working day within 366 days of 2026-08-01", amb.Error())

	wrapped := errors.Join(errors.New("move MF2"), ErrModuleNotFound)
	assert.True(t, IsNotFound(wrapped))
	assert.True(t, IsNotFound(ErrPlanNotFound))
	assert.False(t, IsNotFound(ErrUnknownRegion))
	assert.True(t, IsConfigurationError(ErrUnknownSubregion))

	ce := &ConfigurationError{Field: "region", Value: "XX", Err: ErrUnknownRegion}
	assert.Equal(t, `configuration error: region="XX": unknown region`, ce.Error())
	assert.ErrorIs(t, ce, ErrUnknownRegion)
}

func TestHours(t *testing.T) {
	total := SumHours(NewHours(4.5), NewHours(4.5), HoursFromInt(1))
	assert.True(t, total.Equal(HoursFromInt(10)))
	assert.True(t, SumHours().IsZero())
	assert.True(t, MinHours(NewHours(4.5), HoursFromInt(3)).Equal(HoursFromInt(3)))
}
