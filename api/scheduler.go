/*
scheduler.go - Workspace eviction scheduler

PURPOSE:
  Plans live only in memory. A long-running server would otherwise keep
  every plan ever generated, so a background janitor drops plans that
  nobody has touched for a while.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Evicts plans whose UpdatedAt is older than TTL
  - Each pass also refreshes the calendar-cache gauge

CONFIGURATION:
  - CheckInterval: How often to check (default: 10 minutes)
  - TTL: Idle time before eviction; zero disables the janitor

USAGE:
  janitor := NewWorkspaceJanitor(handler, 24*time.Hour)
  janitor.Start()
  // ... later
  janitor.Stop()

SEE ALSO:
  - workspace.go: EvictIdle
*/
package api

import (
	"sync"
	"time"
)

// WorkspaceJanitor evicts idle plans.
type WorkspaceJanitor struct {
	Handler       *Handler
	CheckInterval time.Duration
	TTL           time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	now    func() time.Time
}

// NewWorkspaceJanitor creates a janitor for h's workspace.
func NewWorkspaceJanitor(h *Handler, ttl time.Duration) *WorkspaceJanitor {
	return &WorkspaceJanitor{
		Handler:       h,
		CheckInterval: 10 * time.Minute,
		TTL:           ttl,
		now:           time.Now,
	}
}

// Start begins the janitor.
func (j *WorkspaceJanitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.TTL <= 0 {
		j.Handler.Log.Info().Msg("workspace janitor disabled")
		return
	}
	if j.ticker != nil {
		return
	}

	j.ticker = time.NewTicker(j.CheckInterval)
	j.stop = make(chan struct{})
	j.wg.Add(1)

	go j.run(j.ticker, j.stop)

	j.Handler.Log.Info().Dur("interval", j.CheckInterval).Dur("ttl", j.TTL).Msg("workspace janitor started")
}

// Stop stops the janitor and waits for the current pass.
func (j *WorkspaceJanitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.ticker != nil {
		j.ticker.Stop()
		close(j.stop)
		j.wg.Wait()
		j.ticker = nil
		j.Handler.Log.Info().Msg("workspace janitor stopped")
	}
}

func (j *WorkspaceJanitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer j.wg.Done()

	for {
		select {
		case <-ticker.C:
			j.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow performs one eviction pass and returns the evicted plan IDs.
func (j *WorkspaceJanitor) RunNow() []string {
	evicted := j.Handler.Plans.EvictIdle(j.now().Add(-j.TTL))
	for _, id := range evicted {
		j.Handler.Log.Info().Str("plan_id", id).Msg("evicted idle plan")
	}
	j.Handler.Metrics.SetCachedCalendars(j.Handler.Calendars.Len())
	return evicted
}
