// Package store provides HolidayStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/course-planner/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/CLI)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	holidays map[string]generic.Holiday
}

// Compile-time check
var _ generic.HolidayStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		holidays: make(map[string]generic.Holiday),
	}
}

// SaveHoliday inserts or replaces by ID.
func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	if err := generic.ValidateHoliday(h); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return generic.ErrHolidayNotFound
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, scope string) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []generic.Holiday
	for _, h := range m.holidays {
		if scope == "" || h.Scope == scope {
			result = append(result, h)
		}
	}
	sortHolidays(result)
	return result, nil
}

func (m *Memory) GetHolidays(scope string, year int) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []generic.Holiday
	for _, h := range m.holidays {
		if h.Scope != "" && h.Scope != scope {
			continue
		}
		date, ok := h.OccursIn(year)
		if !ok {
			continue
		}
		h.Date = date
		result = append(result, h)
	}
	sortHolidays(result)
	return result, nil
}

func sortHolidays(hs []generic.Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		if !hs[i].Date.Equal(hs[j].Date) {
			return hs[i].Date.Before(hs[j].Date)
		}
		return hs[i].ID < hs[j].ID
	})
}
