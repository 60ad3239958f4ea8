package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/factory"
	"github.com/warp/course-planner/generic"
)

const tenerifeFeed = `{
  "certificate": "ADGD0108",
  "start_date": "2026-07-21",
  "region": {"region": "cn", "subregion": "tf"},
  "shift": {"start_time": "09:00", "end_time": "14:00"},
  "modules": [
    {"id": "MF0973_1", "title": "Grabación de datos", "hours": 90},
    {"id": "MF0974_1", "code": "MF0974", "hours": 60.5}
  ]
}`

func TestParseFeed_Valid(t *testing.T) {
	feed, err := factory.NewFeedFactory().ParseFeed(tenerifeFeed)
	require.NoError(t, err)

	assert.Equal(t, "ADGD0108", feed.Certificate)
	assert.Equal(t, generic.NewTimePoint(2026, time.July, 21), feed.Start)
	assert.Equal(t, calendar.Selector{Region: calendar.Canarias, Subregion: calendar.Tenerife}, feed.Selector)
	assert.Equal(t, generic.YearRange{From: 2026, To: 2027}, feed.Years, "default window")

	require.Len(t, feed.Modules, 2)
	assert.Equal(t, "MF0973_1", feed.Modules[0].Code, "code defaults to id")
	assert.Equal(t, "MF0974", feed.Modules[1].Code)
	assert.True(t, feed.Modules[1].TotalHours.Equal(generic.NewHours(60.5)))

	h, err := feed.Shift.HoursPerDay()
	require.NoError(t, err)
	assert.True(t, h.Equal(generic.NewHours(5)))
}

func TestParseFeed_RejectsBadInput(t *testing.T) {
	f := factory.NewFeedFactory()
	base := func() factory.FeedJSON {
		return factory.FeedJSON{
			StartDate: "2026-07-21",
			Region:    factory.RegionJSON{Region: "MD"},
			Shift:     factory.ShiftJSON{FixedHours: 5},
			Modules:   []factory.ModuleJSON{{ID: "MF1", Hours: 30}},
		}
	}

	cases := map[string]struct {
		mutate func(*factory.FeedJSON)
		want   error
	}{
		"malformed date": {func(fj *factory.FeedJSON) { fj.StartDate = "21/07/2026" }, generic.ErrInvalidDate},
		"unknown region": {func(fj *factory.FeedJSON) { fj.Region.Region = "ZZ" }, generic.ErrUnknownRegion},
		"missing island": {func(fj *factory.FeedJSON) { fj.Region.Region = "CN" }, generic.ErrUnknownSubregion},
		"reversed years": {func(fj *factory.FeedJSON) { fj.Years = &factory.YearsJSON{From: 2027, To: 2026} }, generic.ErrInvalidPeriod},
		"zero shift":     {func(fj *factory.FeedJSON) { fj.Shift = factory.ShiftJSON{} }, generic.ErrInvalidHoursPerDay},
		"negative hours": {func(fj *factory.FeedJSON) { fj.Modules[0].Hours = -3 }, generic.ErrInvalidModule},
		"empty id":       {func(fj *factory.FeedJSON) { fj.Modules[0].ID = " " }, generic.ErrInvalidModule},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fj := base()
			tc.mutate(&fj)
			_, err := f.FromJSON(fj)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, generic.IsConfigurationError(err))
		})
	}
}

func TestParseFeed_InvalidJSON(t *testing.T) {
	_, err := factory.NewFeedFactory().ParseFeed(`{"modules": [`)
	assert.Error(t, err)
}

func TestToJSON_PreservesFeed(t *testing.T) {
	f := factory.NewFeedFactory()
	feed, err := f.ParseFeed(tenerifeFeed)
	require.NoError(t, err)

	again, err := f.FromJSON(f.ToJSON(feed))
	require.NoError(t, err)

	assert.Equal(t, feed.Start, again.Start)
	assert.Equal(t, feed.Selector, again.Selector)
	assert.Equal(t, feed.Years, again.Years)
	require.Len(t, again.Modules, 2)
	assert.True(t, again.Modules[1].TotalHours.Equal(feed.Modules[1].TotalHours))
}
