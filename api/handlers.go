/*
handlers.go - HTTP API handlers for the course planner

PURPOSE:
  Exposes the planning engines via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the calendar and planner packages.
  The engines are pure; this file owns the only mutable state (the plan
  workspace and the calendar cache).

ENDPOINTS:
  Plans:
    POST   /api/plans                  Generate a plan from a module feed
    GET    /api/plans                  List plans in the workspace
    GET    /api/plans/{id}             Plan with issues and metrics
    DELETE /api/plans/{id}             Drop a plan
    POST   /api/plans/{id}/move        Preview a cascade (?commit=true applies it)
    PUT    /api/plans/{id}/shift       Replace the shift and regenerate
    GET    /api/plans/{id}/issues      Re-verify against the current calendar
    GET    /api/plans/{id}/metrics     Summary metrics

  Calendar:
    GET    /api/calendar/regions       Selectable regions and islands
    GET    /api/calendar/excluded      Resolved holidays for a selector/window

  Health:
    GET    /api/health                 Holiday store reachability (503 when down)

  Local holidays:
    GET    /api/holidays               List stored local holidays
    POST   /api/holidays               Add one (invalidates the calendar cache)
    DELETE /api/holidays/{id}          Remove one (invalidates the calendar cache)

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Holidays: local holiday store (SQLite in production)
  - Calendars: excluded-day cache keyed by selector and years
  - Feeds: JSON feed to planner inputs
  - Plans: in-memory workspace

REQUEST FLOW:
  1. Parse and validate the HTTP request
  2. Resolve the excluded set through the cache
  3. Call the engine (generate, move, reschedule, verify)
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Configuration errors, invalid input
  - 404: Plan, module or holiday not found
  - 422: No working day reachable (cascade ambiguity)
  - 500: Internal errors
  Verifier issues are never errors: they ride along in the response.

SEE ALSO:
  - dto.go: Request/response data structures
  - workspace.go: Plan storage
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/factory"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/generic/store"
	"github.com/warp/course-planner/planner"
	"github.com/warp/course-planner/telemetry"
)

const timestampLayout = time.RFC3339

// maxWindowWidenings bounds how often a plan is regenerated with a wider
// holiday window.
const maxWindowWidenings = 4

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Holidays  generic.HolidayStore
	Calendars *calendar.Cache
	Feeds     *factory.FeedFactory
	Plans     *Workspace
	Metrics   telemetry.Recorder
	Log       zerolog.Logger

	validate *validator.Validate
	newID    func() string
	// windowWidenings caps how often a plan is regenerated over a wider
	// holiday window before it is rejected.
	windowWidenings int

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a handler. A nil store falls back to memory and a nil
// recorder to telemetry.Nop.
func NewHandler(holidays generic.HolidayStore, metrics telemetry.Recorder, log zerolog.Logger) *Handler {
	if holidays == nil {
		holidays = store.NewMemory()
	}
	if metrics == nil {
		metrics = telemetry.Nop{}
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		Holidays:  holidays,
		Calendars: calendar.NewCache(calendar.NewResolver(holidays)),
		Feeds:     factory.NewFeedFactory(),
		Plans:     NewWorkspace(),
		Metrics:   metrics,
		Log:       log,
		validate:  v,
		newID:     uuid.NewString,

		windowWidenings: maxWindowWidenings,
	}
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// CreatePlan generates a plan from a module feed.
// POST /api/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var fj factory.FeedJSON
	if err := json.NewDecoder(r.Body).Decode(&fj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.createPlan(h.newID(), fj)
	if err != nil {
		writeDomainError(w, "Failed to generate plan", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlanDTO(entry))
}

// Generate runs a feed into the workspace under id.
func (h *Handler) Generate(id string, fj factory.FeedJSON) (PlanDTO, error) {
	entry, err := h.createPlan(id, fj)
	if err != nil {
		return PlanDTO{}, err
	}
	return toPlanDTO(entry), nil
}

// createPlan parses, generates, verifies and stores a plan.
func (h *Handler) createPlan(id string, fj factory.FeedJSON) (*planEntry, error) {
	feed, err := h.Feeds.FromJSON(fj)
	if err != nil {
		h.observe("generate", id, err)
		return nil, err
	}

	entry := &planEntry{
		Selector: feed.Selector,
		Years:    feed.Years,
		Shift:    feed.Shift,
	}
	err = h.schedule(entry, func(excluded calendar.ExcludedSet) (planner.Plan, error) {
		return planner.NewPlan(id, feed.Certificate, feed.Modules, feed.Start, feed.Shift, excluded)
	})
	h.observe("generate", id, err)
	if err != nil {
		return nil, err
	}

	h.Plans.Put(entry)
	h.Metrics.RecordIssues(entry.Issues)
	return entry, nil
}

// ListPlans returns every plan in the workspace.
// GET /api/plans
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	entries := h.Plans.List()
	dtos := make([]PlanSummaryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toPlanSummaryDTO(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": dtos})
}

// GetPlan returns one plan with stored issues and metrics.
// GET /api/plans/{id}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.Plans.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(entry))
}

// DeletePlan drops a plan from the workspace.
// DELETE /api/plans/{id}
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.Plans.Delete(id) {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}
	h.Log.Info().Str("plan_id", id).Msg("plan deleted")
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// MovePlanModule previews moving a module; ?commit=true applies it.
// POST /api/plans/{id}/move
func (h *Handler) MovePlanModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MoveRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	newStart, err := generic.ParseDate("start_date", req.StartDate)
	if err != nil {
		writeDomainError(w, "Invalid start date", err)
		return
	}
	commit, _ := strconv.ParseBool(r.URL.Query().Get("commit"))

	resp, err := h.Move(id, req.ModuleID, newStart, commit)
	if err != nil {
		writeDomainError(w, "Failed to move module", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Move runs the cascade for one module. Without commit the workspace is
// left untouched and the response is a preview.
func (h *Handler) Move(id, moduleID string, newStart generic.TimePoint, commit bool) (MoveResponse, error) {
	var result planner.CascadeResult
	move := func(e *planEntry) (*planEntry, error) {
		err := h.schedule(e, func(excluded calendar.ExcludedSet) (planner.Plan, error) {
			res, err := planner.MoveModule(e.Plan, moduleID, newStart, e.Shift, excluded)
			result = res
			return res.Plan, err
		})
		return e, err
	}

	var (
		entry *planEntry
		err   error
	)
	if commit {
		entry, err = h.Plans.Update(id, move)
	} else if cur, ok := h.Plans.Get(id); ok {
		entry, err = move(cur)
	} else {
		err = generic.ErrPlanNotFound
	}
	h.observe("move", id, err)
	if err != nil {
		return MoveResponse{}, err
	}

	h.Metrics.RecordCascade(result.AffectedCount)
	if commit {
		h.Metrics.RecordIssues(entry.Issues)
		h.Log.Info().
			Str("plan_id", id).
			Str("module_id", moduleID).
			Str("start_date", newStart.String()).
			Int("affected", result.AffectedCount).
			Msg("cascade committed")
	}

	return MoveResponse{
		Plan:          toPlanDTO(entry),
		AffectedCount: result.AffectedCount,
		Changed:       nonNil(result.Changed),
		Committed:     commit,
	}, nil
}

// UpdatePlanShift replaces the shift and regenerates every module.
// PUT /api/plans/{id}/shift
func (h *Handler) UpdatePlanShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ShiftRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	shift := factory.ShiftFromJSON(factory.ShiftJSON{
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		FixedHours:    req.FixedHours,
		AllowWeekends: req.AllowWeekends,
		AllowHolidays: req.AllowHolidays,
	})

	entry, err := h.Plans.Update(id, func(e *planEntry) (*planEntry, error) {
		e.Shift = shift
		err := h.schedule(e, func(excluded calendar.ExcludedSet) (planner.Plan, error) {
			return planner.Reschedule(e.Plan, shift, excluded)
		})
		return e, err
	})
	h.observe("reschedule", id, err)
	if err != nil {
		writeDomainError(w, "Failed to reschedule plan", err)
		return
	}

	h.Metrics.RecordIssues(entry.Issues)
	writeJSON(w, http.StatusOK, toPlanDTO(entry))
}

// GetPlanIssues verifies the plan against the current calendar, which may
// have changed since generation if local holidays were edited.
// GET /api/plans/{id}/issues
func (h *Handler) GetPlanIssues(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.Plans.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}

	excluded, err := h.Calendars.Resolve(entry.Selector, entry.Years)
	if err != nil {
		writeDomainError(w, "Failed to resolve calendar", err)
		return
	}
	issues := planner.Verify(entry.Plan, entry.Shift, excluded)

	writeJSON(w, http.StatusOK, map[string]any{
		"issues":   toIssueDTOs(issues),
		"blocking": planner.HasBlocking(issues),
	})
}

// GetPlanMetrics returns summary metrics.
// GET /api/plans/{id}/metrics
func (h *Handler) GetPlanMetrics(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.Plans.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toMetricsDTO(planner.Summarize(entry.Plan)))
}

// schedule runs an engine call against the entry's excluded set, widening
// the holiday window when the result spills past it, then verifies.
func (h *Handler) schedule(e *planEntry, run func(calendar.ExcludedSet) (planner.Plan, error)) error {
	for attempt := 0; ; attempt++ {
		excluded, err := h.Calendars.Resolve(e.Selector, e.Years)
		if err != nil {
			return err
		}
		plan, err := run(excluded)
		if err != nil {
			return err
		}

		wider, covered := widenToPlan(excluded.Window(), plan)
		if covered {
			e.Plan = plan
			e.Issues = planner.Verify(plan, e.Shift, excluded)
			h.Metrics.SetCachedCalendars(h.Calendars.Len())
			return nil
		}
		if attempt == h.windowWidenings {
			h.Log.Warn().
				Str("plan_id", plan.ID).
				Str("years", e.Years.String()).
				Str("needed", wider.String()).
				Int("widenings", attempt).
				Msg("plan still runs past the holiday window")
			return &generic.ConfigurationError{Field: "years", Value: e.Years.String(), Err: generic.ErrOutsideWindow}
		}
		e.Years = wider
	}
}

// widenToPlan reports whether window covers every session of plan and, when
// it does not, the smallest window that would.
func widenToPlan(window generic.YearRange, plan planner.Plan) (generic.YearRange, bool) {
	m := planner.Summarize(plan)
	if m.SpanStart.IsZero() {
		return window, true
	}
	if window.Covers(generic.Period{Start: m.SpanStart, End: m.SpanEnd}) {
		return window, true
	}
	if y := m.SpanStart.Year(); y < window.From {
		window.From = y
	}
	if y := m.SpanEnd.Year(); y > window.To {
		window.To = y
	}
	return window, false
}

// observe records one engine call in metrics and logs failures.
func (h *Handler) observe(operation, planID string, err error) {
	outcome := telemetry.Outcome(err)
	h.Metrics.RecordOperation(operation, outcome)
	if err != nil {
		ev := h.Log.Warn()
		if outcome == telemetry.OutcomeError {
			ev = h.Log.Error()
		}
		ev.Err(err).Str("operation", operation).Str("plan_id", planID).Str("outcome", outcome).Msg("planner operation failed")
	}
}

// pinger is implemented by database-backed stores.
type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the holiday store answers.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Holidays.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.Log.Error().Err(err).Msg("holiday store unreachable")
			writeError(w, http.StatusServiceUnavailable, "Holiday store unreachable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"plans":            h.Plans.Len(),
		"cached_calendars": h.Calendars.Len(),
	})
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListRegions returns the selectable regions with their islands.
// GET /api/calendar/regions
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions := calendar.Regions()
	dtos := make([]RegionDTO, 0, len(regions))
	for _, info := range regions {
		dtos = append(dtos, toRegionDTO(info))
	}
	writeJSON(w, http.StatusOK, map[string]any{"regions": dtos})
}

// GetExcluded resolves holidays for a selector and year window.
// GET /api/calendar/excluded?region=CN&subregion=TF&locality=&from=2026&to=2027
func (h *Handler) GetExcluded(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := factory.SelectorFromJSON(factory.RegionJSON{
		Region:    q.Get("region"),
		Subregion: q.Get("subregion"),
		Locality:  q.Get("locality"),
	})

	years, err := parseYears(q.Get("from"), q.Get("to"), time.Now().Year())
	if err != nil {
		writeDomainError(w, "Invalid year window", err)
		return
	}

	dto, err := h.Excluded(sel, years)
	if err != nil {
		writeDomainError(w, "Failed to resolve calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Excluded resolves the holidays for a selector over a year window.
func (h *Handler) Excluded(sel calendar.Selector, years generic.YearRange) (ExcludedDTO, error) {
	set, err := h.Calendars.Resolve(sel, years)
	h.observe("resolve", "", err)
	if err != nil {
		return ExcludedDTO{}, err
	}
	holidays, err := h.Calendars.Resolver().Holidays(sel, years)
	if err != nil {
		return ExcludedDTO{}, err
	}
	h.Metrics.SetCachedCalendars(h.Calendars.Len())

	dto := ExcludedDTO{
		Region:   regionJSON(sel),
		Years:    factory.YearsJSON{From: years.From, To: years.To},
		Count:    set.Len(),
		Dates:    make([]string, 0, set.Len()),
		Holidays: make([]CalendarHolidayDTO, 0, len(holidays)),
	}
	for _, d := range set.Dates() {
		dto.Dates = append(dto.Dates, d.String())
	}
	for _, hol := range holidays {
		dto.Holidays = append(dto.Holidays, CalendarHolidayDTO{
			Date:  hol.Date.String(),
			Name:  hol.Name,
			Level: string(hol.Level),
		})
	}
	return dto, nil
}

// parseYears reads from/to query values; a missing bound takes the other,
// and both missing means fallback.
func parseYears(from, to string, fallback int) (generic.YearRange, error) {
	parse := func(field, s string) (int, error) {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			return 0, &generic.ConfigurationError{Field: field, Value: s, Err: generic.ErrInvalidPeriod}
		}
		return y, nil
	}

	years := generic.SingleYear(fallback)
	var err error
	if from != "" {
		if years.From, err = parse("from", from); err != nil {
			return years, err
		}
		years.To = years.From
	}
	if to != "" {
		if years.To, err = parse("to", to); err != nil {
			return years, err
		}
		if from == "" {
			years.From = years.To
		}
	}
	return years, years.Validate()
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns stored local holidays.
// GET /api/holidays?scope=38023
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Holidays.ListHolidays(r.Context(), r.URL.Query().Get("scope"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday adds a local holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	date, err := generic.ParseDate("date", req.Date)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}

	holiday := generic.Holiday{
		ID:        h.newID(),
		Scope:     strings.TrimSpace(req.Scope),
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	}
	if err := h.Holidays.SaveHoliday(r.Context(), holiday); err != nil {
		writeDomainError(w, "Failed to create holiday", err)
		return
	}
	h.Calendars.Invalidate()
	h.Log.Info().Str("holiday_id", holiday.ID).Str("scope", holiday.Scope).Str("date", date.String()).Msg("local holiday added")

	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday removes a local holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Holidays.DeleteHoliday(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	h.Calendars.Invalidate()
	h.Log.Info().Str("holiday_id", id).Msg("local holiday deleted")

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeValidationError reports field-level validator failures, or a decode
// error when the body was not valid JSON.
func writeValidationError(w http.ResponseWriter, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Code:    "validation",
		Details: fields,
	})
}

// writeDomainError maps engine errors to status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case generic.IsNotFound(err):
		status, code = http.StatusNotFound, "not_found"
	case generic.IsCascadeAmbiguity(err):
		status, code = http.StatusUnprocessableEntity, "cascade_ambiguity"
	case generic.IsConfigurationError(err):
		status, code = http.StatusBadRequest, "configuration"
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: err.Error()})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
