/*
handlers_test.go - HTTP tests for the planner API

Tests for:
- Plan generation from a feed and error mapping
- Cascade preview and commit
- Shift replacement
- Local holidays invalidating the calendar cache
- Calendar endpoints
- Store health
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/course-planner/factory"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/logger"
	"github.com/warp/course-planner/store/sqlite"
	"github.com/warp/course-planner/telemetry"
)

func setupTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := NewHandler(st, telemetry.Nop{}, logger.Nop())
	return h, NewRouter(h)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func tenerifeFeed() factory.FeedJSON {
	return threeModuleFeed("TF")
}

func createPlan(t *testing.T, router http.Handler, feed factory.FeedJSON) PlanDTO {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/plans", feed)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[PlanDTO](t, rec)
}

// =============================================================================
// PLANS
// =============================================================================

func TestCreatePlan_Tenerife(t *testing.T) {
	// GIVEN: 30/60/30 hours at 5h/day from Tue 2026-07-21 in Tenerife
	_, router := setupTestHandler(t)

	// WHEN: generating
	plan := createPlan(t, router, tenerifeFeed())

	// THEN: 24 working days, Aug 15 (Saturday) costs nothing
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, 5.0, plan.HoursPerDay)
	require.Len(t, plan.Modules, 3)
	assert.Equal(t, "2026-07-21", plan.Modules[0].StartDate)
	assert.Equal(t, "2026-07-28", plan.Modules[0].EndDate)
	assert.Equal(t, "2026-07-29", plan.Modules[1].StartDate)
	assert.Equal(t, "2026-08-13", plan.Modules[1].EndDate)
	assert.Equal(t, "2026-08-14", plan.Modules[2].StartDate)
	assert.Equal(t, "2026-08-21", plan.Modules[2].EndDate)

	assert.Empty(t, plan.Issues)
	assert.False(t, plan.Blocking)
	assert.Equal(t, 24, plan.Metrics.TotalWorkingDays)
	assert.Equal(t, 120.0, plan.Metrics.TotalHours)
	assert.Equal(t, factory.YearsJSON{From: 2026, To: 2027}, plan.Years)

	list := decode[map[string][]PlanSummaryDTO](t, do(t, router, http.MethodGet, "/api/plans", nil))
	require.Len(t, list["plans"], 1)
	assert.Equal(t, "2026-08-21", list["plans"][0].EndDate)
}

func TestCreatePlan_Rejections(t *testing.T) {
	_, router := setupTestHandler(t)

	feed := tenerifeFeed()
	feed.Region = factory.RegionJSON{Region: "XX"}
	rec := do(t, router, http.MethodPost, "/api/plans", feed)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "configuration", decode[ErrorResponse](t, rec).Code)

	feed = tenerifeFeed()
	feed.Shift = factory.ShiftJSON{StartTime: "14:00", EndTime: "09:00"}
	rec = do(t, router, http.MethodPost, "/api/plans", feed)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/plans", `{"modules": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePlan_WidensWindowPastYearEnd(t *testing.T) {
	// GIVEN: a single-year window that the plan spills out of
	_, router := setupTestHandler(t)
	feed := factory.FeedJSON{
		StartDate: "2026-12-21",
		Region:    factory.RegionJSON{Region: "MD"},
		Years:     &factory.YearsJSON{From: 2026, To: 2026},
		Shift:     factory.ShiftJSON{FixedHours: 5},
		Modules:   []factory.ModuleJSON{{ID: "MF1", Hours: 50}},
	}

	// WHEN: generating
	plan := createPlan(t, router, feed)

	// THEN: 2027 holidays (Jan 1, Jan 6) were still skipped
	assert.Equal(t, factory.YearsJSON{From: 2026, To: 2027}, plan.Years)
	for _, s := range plan.Modules[0].Sessions {
		assert.NotEqual(t, "2027-01-01", s.Date)
		assert.NotEqual(t, "2027-01-06", s.Date)
	}
	// Dec 21-24, 28-31, Jan 4, 5 → 10 sessions
	assert.Equal(t, "2027-01-05", plan.Modules[0].EndDate)
}

func TestCreatePlan_RejectsPlanPastLastWidening(t *testing.T) {
	// GIVEN: the same spilling plan with no widenings allowed
	h, router := setupTestHandler(t)
	h.windowWidenings = 0
	feed := factory.FeedJSON{
		StartDate: "2026-12-21",
		Region:    factory.RegionJSON{Region: "MD"},
		Years:     &factory.YearsJSON{From: 2026, To: 2026},
		Shift:     factory.ShiftJSON{FixedHours: 5},
		Modules:   []factory.ModuleJSON{{ID: "MF1", Hours: 50}},
	}

	// WHEN: generating
	rec := do(t, router, http.MethodPost, "/api/plans", feed)

	// THEN: the plan is refused instead of stored with unchecked 2027 dates
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "configuration", resp.Code)
	assert.Contains(t, resp.Details, generic.ErrOutsideWindow.Error())
	assert.Equal(t, 0, h.Plans.Len())
}

func TestMove_PreviewThenCommit(t *testing.T) {
	// GIVEN: the Tenerife plan
	_, router := setupTestHandler(t)
	plan := createPlan(t, router, tenerifeFeed())
	path := "/api/plans/" + plan.ID + "/move"
	move := MoveRequest{ModuleID: "MF0232_3", StartDate: "2026-08-03"}

	// WHEN: previewing a move of the second module by 3 working days
	rec := do(t, router, http.MethodPost, path, move)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	preview := decode[MoveResponse](t, rec)

	// THEN: both downstream modules are affected but nothing is stored
	assert.False(t, preview.Committed)
	assert.Equal(t, 2, preview.AffectedCount)
	assert.Equal(t, []string{"MF0232_3", "MF0233_2"}, preview.Changed)
	assert.Equal(t, "2026-08-18", preview.Plan.Modules[1].EndDate)
	assert.Equal(t, "2026-08-19", preview.Plan.Modules[2].StartDate)

	stored := decode[PlanDTO](t, do(t, router, http.MethodGet, "/api/plans/"+plan.ID, nil))
	assert.Equal(t, "2026-07-29", stored.Modules[1].StartDate)

	// WHEN: committing
	rec = do(t, router, http.MethodPost, path+"?commit=true", move)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[MoveResponse](t, rec).Committed)

	// THEN: the workspace holds the moved plan
	stored = decode[PlanDTO](t, do(t, router, http.MethodGet, "/api/plans/"+plan.ID, nil))
	assert.Equal(t, "2026-08-03", stored.Modules[1].StartDate)
	assert.Equal(t, "2026-08-19", stored.Modules[2].StartDate)
	assert.Empty(t, stored.Issues)
}

func TestMove_Errors(t *testing.T) {
	_, router := setupTestHandler(t)
	plan := createPlan(t, router, tenerifeFeed())
	path := "/api/plans/" + plan.ID + "/move"

	rec := do(t, router, http.MethodPost, path, MoveRequest{ModuleID: "MF9", StartDate: "2026-08-03"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/plans/missing/move?commit=true", MoveRequest{ModuleID: "MF0232_3", StartDate: "2026-08-03"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, path, MoveRequest{ModuleID: "MF0232_3", StartDate: "03/08/2026"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "validation", resp.Code)
	assert.Equal(t, map[string]any{"start_date": "datetime"}, resp.Details)
}

func TestUpdateShift_RegeneratesPlan(t *testing.T) {
	_, router := setupTestHandler(t)
	plan := createPlan(t, router, tenerifeFeed())

	rec := do(t, router, http.MethodPut, "/api/plans/"+plan.ID+"/shift", ShiftRequest{FixedHours: 6})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[PlanDTO](t, rec)

	// 120h / 6h = 20 working days
	assert.Equal(t, 6.0, updated.HoursPerDay)
	assert.Equal(t, 20, updated.Metrics.TotalWorkingDays)
	assert.Equal(t, "2026-08-17", updated.Modules[2].EndDate)

	rec = do(t, router, http.MethodPut, "/api/plans/"+plan.ID+"/shift", ShiftRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/plans/"+plan.ID+"/shift", ShiftRequest{StartTime: "9am", EndTime: "14:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePlan(t *testing.T) {
	h, router := setupTestHandler(t)
	plan := createPlan(t, router, tenerifeFeed())

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/api/plans/"+plan.ID, nil).Code)
	assert.Equal(t, 0, h.Plans.Len())
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/plans/"+plan.ID, nil).Code)
}

// =============================================================================
// LOCAL HOLIDAYS
// =============================================================================

func TestHolidays_ChangeReverification(t *testing.T) {
	// GIVEN: a plan in La Laguna (locality 38023)
	h, router := setupTestHandler(t)
	feed := tenerifeFeed()
	feed.Region.Locality = "38023"
	plan := createPlan(t, router, feed)
	require.Equal(t, 1, h.Calendars.Len())

	// WHEN: a local holiday lands on a scheduled day
	rec := do(t, router, http.MethodPost, "/api/holidays", CreateHolidayRequest{
		Scope: "38023", Date: "2026-07-22", Name: "Fiesta local",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[HolidayDTO](t, rec)
	assert.Equal(t, 0, h.Calendars.Len(), "cache invalidated")

	// THEN: re-verification reports an advisory policy issue on that day
	issues := decode[struct {
		Issues   []IssueDTO `json:"issues"`
		Blocking bool       `json:"blocking"`
	}](t, do(t, router, http.MethodGet, "/api/plans/"+plan.ID+"/issues", nil))
	require.Len(t, issues.Issues, 1)
	assert.Equal(t, "policy", issues.Issues[0].Code)
	assert.Equal(t, "2026-07-22", issues.Issues[0].Date)
	assert.False(t, issues.Blocking)

	list := decode[map[string][]HolidayDTO](t, do(t, router, http.MethodGet, "/api/holidays?scope=38023", nil))
	assert.Len(t, list["holidays"], 1)

	// Deleting twice: the second is a 404
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/api/holidays/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/holidays/"+created.ID, nil).Code)
}

func TestHolidays_Validation(t *testing.T) {
	_, router := setupTestHandler(t)
	rec := do(t, router, http.MethodPost, "/api/holidays", CreateHolidayRequest{Date: "2026-07-22"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"name": "required"}, decode[ErrorResponse](t, rec).Details)
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestCalendar_Regions(t *testing.T) {
	_, router := setupTestHandler(t)
	resp := decode[map[string][]RegionDTO](t, do(t, router, http.MethodGet, "/api/calendar/regions", nil))

	assert.Len(t, resp["regions"], 17)
	for _, r := range resp["regions"] {
		if r.Code == "CN" {
			assert.True(t, r.RequiresSubregion)
			assert.Len(t, r.Subregions, 7)
			return
		}
	}
	t.Fatal("Canarias missing")
}

func TestCalendar_Excluded(t *testing.T) {
	_, router := setupTestHandler(t)

	rec := do(t, router, http.MethodGet, "/api/calendar/excluded?region=cn&subregion=tf&from=2026", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ExcludedDTO](t, rec)

	assert.Equal(t, factory.YearsJSON{From: 2026, To: 2026}, resp.Years)
	assert.Contains(t, resp.Dates, "2026-02-02")
	assert.Contains(t, resp.Dates, "2026-04-02")
	assert.Equal(t, len(resp.Dates), resp.Count)

	var candelaria *CalendarHolidayDTO
	for i := range resp.Holidays {
		if resp.Holidays[i].Date == "2026-02-02" {
			candelaria = &resp.Holidays[i]
		}
	}
	require.NotNil(t, candelaria)
	assert.Equal(t, "subregional", candelaria.Level)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calendar/excluded?region=CN&from=2026", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calendar/excluded?region=MD&from=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calendar/excluded?region=MD&from=2027&to=2026", nil).Code)
}

func TestParseYears(t *testing.T) {
	years, err := parseYears("", "", 2026)
	require.NoError(t, err)
	assert.Equal(t, generic.YearRange{From: 2026, To: 2026}, years)

	years, err = parseYears("", "2028", 2026)
	require.NoError(t, err)
	assert.Equal(t, generic.YearRange{From: 2028, To: 2028}, years)

	years, err = parseYears("2026", "2027", 2020)
	require.NoError(t, err)
	assert.Equal(t, generic.YearRange{From: 2026, To: 2027}, years)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{generic.ErrPlanNotFound, http.StatusNotFound, "not_found"},
		{&generic.CascadeAmbiguityError{Days: 366}, http.StatusUnprocessableEntity, "cascade_ambiguity"},
		{&generic.ConfigurationError{Field: "region", Err: generic.ErrUnknownRegion}, http.StatusBadRequest, "configuration"},
		{assert.AnError, http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, "failed", tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, tc.code, decode[ErrorResponse](t, rec).Code)
	}
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	h, router := setupTestHandler(t)

	rec := do(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])

	// a closed database no longer answers
	require.NoError(t, h.Holidays.(*sqlite.Store).Close())
	rec = do(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
