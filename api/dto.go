/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the planner's domain model (decimal hours, TimePoint) from the wire
  contract (float hours, ISO dates).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Plans:
    PlanDTO, ModuleScheduleDTO, SessionDTO, IssueDTO, MetricsDTO
    MoveRequest, MoveResponse, ShiftRequest

  Calendar:
    RegionDTO, SubregionDTO, ExcludedDTO, CalendarHolidayDTO

  Local holidays:
    HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Request types carry go-playground/validator tags; handlers call
  decodeAndValidate before touching the domain. Domain rules (region codes,
  shift capacity) are still enforced by the domain packages.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/feed.go: FeedJSON, the body of POST /api/plans
*/
package api

import (
	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/factory"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/planner"
)

// =============================================================================
// PLAN TYPES
// =============================================================================

// PlanDTO is a generated plan with its verification and metrics.
type PlanDTO struct {
	ID          string              `json:"id"`
	Certificate string              `json:"certificate"`
	StartDate   string              `json:"start_date"`
	Region      factory.RegionJSON  `json:"region"`
	Years       factory.YearsJSON   `json:"years"`
	Shift       factory.ShiftJSON   `json:"shift"`
	HoursPerDay float64             `json:"hours_per_day"`
	Modules     []ModuleScheduleDTO `json:"modules"`
	Issues      []IssueDTO          `json:"issues"`
	Blocking    bool                `json:"blocking"`
	Metrics     MetricsDTO          `json:"metrics"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// PlanSummaryDTO is one row of GET /api/plans.
type PlanSummaryDTO struct {
	ID          string `json:"id"`
	Certificate string `json:"certificate"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Modules     int    `json:"modules"`
	Blocking    bool   `json:"blocking"`
	UpdatedAt   string `json:"updated_at"`
}

// ModuleScheduleDTO is one module and its sessions.
type ModuleScheduleDTO struct {
	ID             string       `json:"id"`
	Code           string       `json:"code"`
	Title          string       `json:"title,omitempty"`
	TotalHours     float64      `json:"total_hours"`
	ScheduledHours float64      `json:"scheduled_hours"`
	StartDate      string       `json:"start_date,omitempty"`
	EndDate        string       `json:"end_date,omitempty"`
	Sessions       []SessionDTO `json:"sessions"`
}

// SessionDTO is one dated block of teaching.
type SessionDTO struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// IssueDTO is a verifier finding.
type IssueDTO struct {
	Code        string   `json:"code"`
	Severity    string   `json:"severity"`
	Message     string   `json:"message"`
	Date        string   `json:"date,omitempty"`
	ModuleIDs   []string `json:"module_ids,omitempty"`
	ModuleCodes []string `json:"module_codes,omitempty"`
}

// MetricsDTO mirrors planner.Metrics.
type MetricsDTO struct {
	SpanStart        string           `json:"span_start,omitempty"`
	SpanEnd          string           `json:"span_end,omitempty"`
	CalendarDays     int              `json:"calendar_days"`
	TotalWorkingDays int              `json:"total_working_days"`
	TotalHours       float64          `json:"total_hours"`
	Weeks            int              `json:"weeks"`
	HoursPerWeekAvg  float64          `json:"hours_per_week_avg"`
	PeakWeekHours    float64          `json:"peak_week_hours"`
	PerModule        []ModuleRangeDTO `json:"per_module"`
}

// ModuleRangeDTO mirrors planner.ModuleRange.
type ModuleRangeDTO struct {
	ModuleID string  `json:"module_id"`
	Code     string  `json:"code"`
	Start    string  `json:"start,omitempty"`
	End      string  `json:"end,omitempty"`
	Sessions int     `json:"sessions"`
	Hours    float64 `json:"hours"`
}

// MoveRequest asks to move one module to a new start date.
type MoveRequest struct {
	ModuleID  string `json:"module_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// MoveResponse is a cascade preview or commit.
type MoveResponse struct {
	Plan          PlanDTO  `json:"plan"`
	AffectedCount int      `json:"affected_count"`
	Changed       []string `json:"changed"`
	Committed     bool     `json:"committed"`
}

// ShiftRequest replaces the plan's shift.
type ShiftRequest struct {
	StartTime     string  `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime       string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	FixedHours    float64 `json:"fixed_hours" validate:"gte=0,lte=24"`
	AllowWeekends bool    `json:"allow_weekends"`
	AllowHolidays bool    `json:"allow_holidays"`
}

// =============================================================================
// CALENDAR TYPES
// =============================================================================

// RegionDTO lists a selectable region.
type RegionDTO struct {
	Code              string         `json:"code"`
	Name              string         `json:"name"`
	RequiresSubregion bool           `json:"requires_subregion"`
	Subregions        []SubregionDTO `json:"subregions,omitempty"`
}

// SubregionDTO lists a selectable island.
type SubregionDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CalendarHolidayDTO is one resolved holiday.
type CalendarHolidayDTO struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// ExcludedDTO answers GET /api/calendar/excluded.
type ExcludedDTO struct {
	Region   factory.RegionJSON   `json:"region"`
	Years    factory.YearsJSON    `json:"years"`
	Count    int                  `json:"count"`
	Dates    []string             `json:"dates"`
	Holidays []CalendarHolidayDTO `json:"holidays"`
}

// =============================================================================
// LOCAL HOLIDAY TYPES
// =============================================================================

// HolidayDTO is a stored local holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Scope     string `json:"scope"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest adds a local holiday. Scope is a locality code;
// empty applies to every locality.
type CreateHolidayRequest struct {
	Scope     string `json:"scope" validate:"omitempty,max=32"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string `json:"name" validate:"required,max=120"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a demo certificate.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Region      string `json:"region"`
}

// LoadScenarioRequest selects a demo certificate.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPlanDTO(e *planEntry) PlanDTO {
	hpd, _ := e.Shift.HoursPerDay()
	dto := PlanDTO{
		ID:          e.Plan.ID,
		Certificate: e.Plan.Certificate,
		StartDate:   e.Plan.Start.String(),
		Region:      regionJSON(e.Selector),
		Years:       factory.YearsJSON{From: e.Years.From, To: e.Years.To},
		Shift:       factory.ShiftToJSON(e.Shift),
		HoursPerDay: hpd.InexactFloat64(),
		Modules:     make([]ModuleScheduleDTO, 0, len(e.Plan.Modules)),
		Issues:      toIssueDTOs(e.Issues),
		Blocking:    planner.HasBlocking(e.Issues),
		Metrics:     toMetricsDTO(planner.Summarize(e.Plan)),
		CreatedAt:   e.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:   e.UpdatedAt.UTC().Format(timestampLayout),
	}
	for _, ms := range e.Plan.Modules {
		dto.Modules = append(dto.Modules, toModuleScheduleDTO(ms))
	}
	return dto
}

func toPlanSummaryDTO(e *planEntry) PlanSummaryDTO {
	m := planner.Summarize(e.Plan)
	return PlanSummaryDTO{
		ID:          e.Plan.ID,
		Certificate: e.Plan.Certificate,
		StartDate:   e.Plan.Start.String(),
		EndDate:     m.SpanEnd.String(),
		Modules:     len(e.Plan.Modules),
		Blocking:    planner.HasBlocking(e.Issues),
		UpdatedAt:   e.UpdatedAt.UTC().Format(timestampLayout),
	}
}

func toModuleScheduleDTO(ms planner.ModuleSchedule) ModuleScheduleDTO {
	dto := ModuleScheduleDTO{
		ID:             ms.Module.ID,
		Code:           ms.Module.Code,
		Title:          ms.Module.Title,
		TotalHours:     ms.Module.TotalHours.InexactFloat64(),
		ScheduledHours: ms.ScheduledHours().InexactFloat64(),
		Sessions:       make([]SessionDTO, 0, len(ms.Sessions)),
	}
	if first, last, ok := ms.Span(); ok {
		dto.StartDate = first.String()
		dto.EndDate = last.String()
	}
	for _, s := range ms.Sessions {
		dto.Sessions = append(dto.Sessions, SessionDTO{Date: s.Date.String(), Hours: s.Hours.InexactFloat64()})
	}
	return dto
}

func toIssueDTOs(issues []planner.Issue) []IssueDTO {
	dtos := make([]IssueDTO, 0, len(issues))
	for _, is := range issues {
		dtos = append(dtos, IssueDTO{
			Code:        string(is.Code),
			Severity:    string(is.Severity),
			Message:     is.Message,
			Date:        is.Date.String(),
			ModuleIDs:   is.ModuleIDs,
			ModuleCodes: is.ModuleCodes,
		})
	}
	return dtos
}

func toMetricsDTO(m planner.Metrics) MetricsDTO {
	dto := MetricsDTO{
		SpanStart:        m.SpanStart.String(),
		SpanEnd:          m.SpanEnd.String(),
		CalendarDays:     m.CalendarDays,
		TotalWorkingDays: m.TotalWorkingDays,
		TotalHours:       m.TotalHours.InexactFloat64(),
		Weeks:            m.Weeks,
		HoursPerWeekAvg:  m.HoursPerWeekAvg,
		PeakWeekHours:    m.PeakWeekHours,
		PerModule:        make([]ModuleRangeDTO, 0, len(m.PerModule)),
	}
	for _, r := range m.PerModule {
		dto.PerModule = append(dto.PerModule, ModuleRangeDTO{
			ModuleID: r.ModuleID,
			Code:     r.Code,
			Start:    r.Start.String(),
			End:      r.End.String(),
			Sessions: r.Sessions,
			Hours:    r.Hours.InexactFloat64(),
		})
	}
	return dto
}

func toRegionDTO(info calendar.RegionInfo) RegionDTO {
	dto := RegionDTO{
		Code:              string(info.Code),
		Name:              info.Name,
		RequiresSubregion: info.RequiresSubregion(),
	}
	for _, sub := range info.SortedSubregions() {
		dto.Subregions = append(dto.Subregions, SubregionDTO{Code: string(sub.Code), Name: sub.Name})
	}
	return dto
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Scope:     h.Scope,
		Date:      h.Date.String(),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

func regionJSON(sel calendar.Selector) factory.RegionJSON {
	return factory.RegionJSON{
		Region:    string(sel.Region),
		Subregion: string(sel.Subregion),
		Locality:  sel.Locality,
	}
}
