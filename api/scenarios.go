/*
scenarios.go - Demo certificates for testing and demonstrations

PURPOSE:

	Provides pre-built module feeds that exercise specific calendar and
	scheduling behaviors: a holiday falling on a weekend, an island holiday,
	a window that crosses the new year, a fractional shift.

AVAILABLE SCENARIOS:

	certificate-tenerife:  Three modules, 5h/day, Assumption Day on a Saturday
	certificate-la-palma:  Same feed on La Palma, where Aug 5 pushes everything a day
	intensive-madrid:      6h/day including weekends across Christmas
	afternoon-gran-canaria: 4.5h afternoon shift over Virgen del Pino

HOW SCENARIOS WORK:
 1. Reset the plan workspace
 2. Run the feed through the factory
 3. Generate and verify the plan under the scenario ID

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "certificate-tenerife"}

ADDING NEW SCENARIOS:
 1. Add an entry to 'scenarios' with its feed

NOTE:

	Loading a scenario drops every plan in the workspace. Local holidays in
	the store are left alone.

SEE ALSO:
  - handlers.go: createPlan
  - factory/feed.go: Feed JSON definitions
*/
package api

import (
	"net/http"

	"github.com/warp/course-planner/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	Feed factory.FeedJSON
}

func threeModuleFeed(subregion string) factory.FeedJSON {
	return factory.FeedJSON{
		Certificate: "ADGD0108",
		StartDate:   "2026-07-21",
		Region:      factory.RegionJSON{Region: "CN", Subregion: subregion},
		Shift:       factory.ShiftJSON{StartTime: "09:00", EndTime: "14:00"},
		Modules: []factory.ModuleJSON{
			{ID: "MF0231_3", Title: "Contabilidad empresarial", Hours: 30},
			{ID: "MF0232_3", Title: "Auditoría", Hours: 60},
			{ID: "MF0233_2", Title: "Ofimática", Hours: 30},
		},
	}
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "certificate-tenerife",
			Name:        "Certificate in Tenerife",
			Description: "120h at 5h/day from Tue 2026-07-21; Aug 15 falls on a Saturday and costs nothing",
			Region:      "CN/TF",
		},
		Feed: threeModuleFeed("TF"),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "certificate-la-palma",
			Name:        "Certificate in La Palma",
			Description: "Same feed; Virgen de las Nieves (Wed Aug 5) delays the second and third modules",
			Region:      "CN/LP",
		},
		Feed: threeModuleFeed("LP"),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "intensive-madrid",
			Name:        "Intensive course in Madrid",
			Description: "6h/day with weekends allowed across Christmas and Epiphany",
			Region:      "MD",
		},
		Feed: factory.FeedJSON{
			Certificate: "IFCT0310",
			StartDate:   "2026-12-01",
			Region:      factory.RegionJSON{Region: "MD"},
			Shift:       factory.ShiftJSON{FixedHours: 6, AllowWeekends: true},
			Modules: []factory.ModuleJSON{
				{ID: "MF0223_3", Title: "Sistemas operativos", Hours: 90},
				{ID: "MF0224_3", Title: "Administración de bases de datos", Hours: 120},
			},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "afternoon-gran-canaria",
			Name:        "Afternoon shift in Gran Canaria",
			Description: "15:00-19:30 shift (4.5h) from Tue 2026-09-01 over Virgen del Pino",
			Region:      "CN/GC",
		},
		Feed: factory.FeedJSON{
			Certificate: "SSCE0110",
			StartDate:   "2026-09-01",
			Region:      factory.RegionJSON{Region: "CN", Subregion: "GC"},
			Shift:       factory.ShiftJSON{StartTime: "15:00", EndTime: "19:30"},
			Modules: []factory.ModuleJSON{
				{ID: "MF1442_3", Title: "Programación didáctica", Hours: 60},
				{ID: "MF1443_3", Title: "Selección y elaboración de materiales", Hours: 45},
				{ID: "MF1444_3", Title: "Impartición y tutorización", Hours: 27},
			},
		},
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, 0, len(scenarios))
	for _, s := range scenarios {
		dtos = append(dtos, s.ScenarioDTO)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if s, ok := findScenario(current); ok {
		writeJSON(w, http.StatusOK, s.ScenarioDTO)
		return
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario resets the workspace and generates the scenario's plan.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Plans.Reset()
	h.currentScenario = ""

	entry, err := h.createPlan(s.ID, s.Feed)
	if err != nil {
		writeDomainError(w, "Failed to load scenario", err)
		return
	}

	h.currentScenario = s.ID
	h.Log.Info().Str("scenario", s.ID).Msg("scenario loaded")

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": s.ID,
		"plan":     toPlanDTO(entry),
	})
}
