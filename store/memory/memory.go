// Package memory provides an in-memory planner.Repository.
package memory

import (
	"context"
	"sync"

	"github.com/warp/year-planner/planner"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	days     map[string]planner.DayRecord
	settings *planner.HolidaySettings
}

func New() *Memory {
	return &Memory{days: make(map[string]planner.DayRecord)}
}

func (m *Memory) GetDayRecord(_ context.Context, date string) (*planner.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.days[date]
	if !ok {
		return nil, nil
	}
	rec = rec.Clone()
	return &rec, nil
}

// SaveDayRecord upserts a single record.
func (m *Memory) SaveDayRecord(_ context.Context, rec planner.DayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[rec.Date] = rec.Clone()
	return nil
}

// SaveDayRecords upserts several records under one lock.
func (m *Memory) SaveDayRecords(_ context.Context, recs []planner.DayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range recs {
		m.days[rec.Date] = rec.Clone()
	}
	return nil
}

func (m *Memory) GetAllDayRecords(_ context.Context) (map[string]planner.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return planner.CloneDays(m.days), nil
}

func (m *Memory) GetSettings(_ context.Context) (*planner.HolidaySettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return nil, nil
	}
	s := *m.settings
	return &s, nil
}

func (m *Memory) SaveSettings(_ context.Context, s planner.HolidaySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

func (m *Memory) SearchPlans(_ context.Context, query string) ([]planner.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return planner.SearchDays(m.days, query), nil
}

// Reset drops every day and the settings.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = make(map[string]planner.DayRecord)
	m.settings = nil
	return nil
}
