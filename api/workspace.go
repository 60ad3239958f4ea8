package api

import (
	"sort"
	"sync"
	"time"

	"github.com/warp/course-planner/calendar"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/planner"
)

// planEntry is a plan plus the inputs needed to regenerate and verify it.
type planEntry struct {
	Plan      planner.Plan
	Selector  calendar.Selector
	Years     generic.YearRange
	Shift     planner.ShiftConfig
	Issues    []planner.Issue
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *planEntry) clone() *planEntry {
	c := *e
	c.Plan = e.Plan.Clone()
	c.Issues = append([]planner.Issue(nil), e.Issues...)
	return &c
}

// Workspace holds plans in memory. Plans are not persisted.
// Callers get copies; writes replace the whole entry.
type Workspace struct {
	mu    sync.RWMutex
	plans map[string]*planEntry
	now   func() time.Time
}

func NewWorkspace() *Workspace {
	return &Workspace{
		plans: make(map[string]*planEntry),
		now:   time.Now,
	}
}

// Get returns a copy of the entry.
func (ws *Workspace) Get(id string) (*planEntry, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	e, ok := ws.plans[id]
	if !ok {
		return nil, false
	}
	return e.clone(), true
}

// Put stores e, stamping CreatedAt on first insert and UpdatedAt always.
func (ws *Workspace) Put(e *planEntry) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	now := ws.now()
	stored := e.clone()
	if prev, ok := ws.plans[e.Plan.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	ws.plans[e.Plan.ID] = stored
	*e = *stored.clone()
}

// Update applies fn to the stored entry under the write lock. fn returns the
// replacement; an error leaves the entry untouched.
func (ws *Workspace) Update(id string, fn func(*planEntry) (*planEntry, error)) (*planEntry, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	cur, ok := ws.plans[id]
	if !ok {
		return nil, generic.ErrPlanNotFound
	}
	next, err := fn(cur.clone())
	if err != nil {
		return nil, err
	}
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = ws.now()
	ws.plans[id] = next.clone()
	return next, nil
}

// List returns copies ordered by creation time.
func (ws *Workspace) List() []*planEntry {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	out := make([]*planEntry, 0, len(ws.plans))
	for _, e := range ws.plans {
		out = append(out, e.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Plan.ID < out[j].Plan.ID
	})
	return out
}

// Delete removes a plan. Returns false if it did not exist.
func (ws *Workspace) Delete(id string) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	_, ok := ws.plans[id]
	delete(ws.plans, id)
	return ok
}

// EvictIdle drops plans not updated since cutoff and returns their IDs.
func (ws *Workspace) EvictIdle(cutoff time.Time) []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	var evicted []string
	for id, e := range ws.plans {
		if e.UpdatedAt.Before(cutoff) {
			delete(ws.plans, id)
			evicted = append(evicted, id)
		}
	}
	sort.Strings(evicted)
	return evicted
}

// Reset drops every plan.
func (ws *Workspace) Reset() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.plans = make(map[string]*planEntry)
}

func (ws *Workspace) Len() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.plans)
}
