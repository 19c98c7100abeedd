/*
repository.go - Persistence interface for day records and settings

PURPOSE:
  Defines the boundary between the Day Store and storage. The Day Store
  never knows which implementation is active; swapping one for another is
  followed by LoadAll.

KEY INTERFACES:
  Repository: Day records, settings and search
  BatchSaver: Atomic multi-day writes (optional capability)
  Resetter:   Wipe all data (optional capability, demo data only)

IMPLEMENTATIONS:
  - store/memory: In-memory, for tests and dev
  - store/sqlite: Local single-device key-value store
  - store/document: Per-user document store (PostgreSQL via GORM)

SEARCH:
  SearchPlans matches case-insensitively over title, tag and notes.
  Implementations share MatchPlan so results agree across stores.
*/
package planner

import (
	"context"
	"sort"
	"strings"
)

// =============================================================================
// REPOSITORY - Interface for day record persistence
// =============================================================================

type Repository interface {
	// GetDayRecord returns nil, nil when the date has no record.
	GetDayRecord(ctx context.Context, date string) (*DayRecord, error)

	// SaveDayRecord upserts keyed by record.Date.
	SaveDayRecord(ctx context.Context, record DayRecord) error

	// GetAllDayRecords returns every stored record keyed by date.
	GetAllDayRecords(ctx context.Context) (map[string]DayRecord, error)

	// GetSettings returns nil, nil when no settings were ever saved.
	GetSettings(ctx context.Context) (*HolidaySettings, error)

	SaveSettings(ctx context.Context, settings HolidaySettings) error

	SearchPlans(ctx context.Context, query string) ([]Plan, error)
}

// BatchSaver is implemented by repositories that can write several days
// atomically. Either all records are saved or none are.
type BatchSaver interface {
	SaveDayRecords(ctx context.Context, records []DayRecord) error
}

// Resetter is implemented by repositories that can drop all of their data.
type Resetter interface {
	Reset(ctx context.Context) error
}

// =============================================================================
// SEARCH HELPERS
// =============================================================================

// MatchPlan reports whether query occurs in the plan's title, tag or notes,
// ignoring case. An empty query matches nothing.
func MatchPlan(p Plan, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Notes), q) ||
		strings.Contains(strings.ToLower(string(p.Tag)), q)
}

// SearchDays applies MatchPlan to every plan, in date order then plan order.
func SearchDays(days map[string]DayRecord, query string) []Plan {
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	results := []Plan{}
	for _, d := range dates {
		for _, p := range days[d].Plans {
			if MatchPlan(p, query) {
				results = append(results, p)
			}
		}
	}
	return results
}

// SortedRecords returns the records ordered by date.
func SortedRecords(days map[string]DayRecord) []DayRecord {
	out := make([]DayRecord, 0, len(days))
	for _, d := range sortedDates(days) {
		out = append(out, days[d])
	}
	return out
}
