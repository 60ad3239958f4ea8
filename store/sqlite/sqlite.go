/*
Package sqlite provides a SQLite-backed implementation of the holiday store.

PURPOSE:
  Persists municipal (local) holidays entered by users. National and regional
  holidays are computed by the calendar package and never stored.

INTERFACES IMPLEMENTED:
  generic.HolidayCalendar: read side used by calendar.Resolver
  generic.HolidayStore:    management used by the HTTP shell

KEY TABLES:
  holidays: one row per local holiday; scope is a locality code ('' = all)

INDEXES:
  - idx_holidays_scope_date: lookups by locality and date
  - idx_holidays_unique: a locality cannot list the same holiday twice

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of the driver.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  resolver := calendar.NewResolver(store)

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/course-planner/generic"
)

// Store implements generic.HolidayStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.HolidayStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a fresh database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		scope TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_scope_date
		ON holidays(scope, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(scope, date, name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHoliday inserts or replaces a holiday by ID.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	if err := generic.ValidateHoliday(h); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, scope, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scope = excluded.scope,
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.Scope,
		h.Date.String(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("holiday %q already exists for %s on %s: %w", h.Name, scopeLabel(h.Scope), h.Date, err)
	}
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("holiday %s: %w", id, generic.ErrHolidayNotFound)
	}
	return nil
}

// ListHolidays returns stored holidays for scope, or every holiday when scope
// is empty. Dates are as stored; recurring entries are not projected.
func (s *Store) ListHolidays(ctx context.Context, scope string) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, scope, date, name, recurring FROM holidays`
	var args []any
	if scope != "" {
		query += ` WHERE scope = ?`
		args = append(args, scope)
	}
	query += ` ORDER BY date ASC, id ASC`

	return s.queryHolidays(ctx, query, args...)
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// GetHolidays returns the holidays for a locality in a given year.
// Includes both locality-specific and global holidays, with recurring rows
// moved to year.
func (s *Store) GetHolidays(scope string, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, scope, date, name, recurring
		FROM holidays
		WHERE (scope = ? OR scope = '')
		  AND (recurring = TRUE OR strftime('%Y', date) = ?)
		ORDER BY date ASC, id ASC
	`

	rows, err := s.queryHolidays(context.Background(), query, scope, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays for %s in %d: %w", scopeLabel(scope), year, err)
	}

	var holidays []generic.Holiday
	for _, h := range rows {
		date, ok := h.OccursIn(year)
		if !ok {
			continue
		}
		h.Date = date
		holidays = append(holidays, h)
	}
	// Recurring rows were ordered by their stored year.
	sortByDate(holidays)
	return holidays, nil
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]generic.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &h.Scope, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		t, err := time.Parse(generic.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("holiday %s: bad stored date %q: %w", h.ID, dateStr, err)
		}
		h.Date = generic.FromTime(t)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Helper functions

func sortByDate(hs []generic.Holiday) {
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })
}

func scopeLabel(scope string) string {
	if scope == "" {
		return "all localities"
	}
	return scope
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
