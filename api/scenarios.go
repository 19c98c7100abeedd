/*
scenarios.go - Demo data sets for testing and demonstrations

PURPOSE:

	Populates the active repository with a realistic year of plans so the
	planner, allowance and upcoming panel have something to show.

AVAILABLE SCENARIOS:

	empty:        Wipe everything, default settings
	summer-trip:  One two-week trip plus a few single-day errands
	busy-year:    Easter, summer and Christmas breaks, rollover days,
	              appointments and a team offsite

HOW SCENARIOS WORK:
 1. Reset the repository (clear all data)
 2. Save holiday settings
 3. Add plans through the Day Store, as a user would

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "busy-year"}

NOTE:

	Scenarios reset the repository. Only repositories that support Reset
	(local SQLite, memory) can load them; signed-in users get 409.

SEE ALSO:
  - handlers.go: Plan endpoints the scenarios mimic
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/year-planner/internal/log"
	"github.com/warp/year-planner/planner"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "empty",
		Name:        "Empty Year",
		Description: "No plans, default allowance of 23 days",
	},
	{
		ID:          "summer-trip",
		Name:        "Summer Trip",
		Description: "Two weeks away in August plus a few errands",
	},
	{
		ID:          "busy-year",
		Name:        "Busy Year",
		Description: "Three breaks, an offsite, rollover days and appointments",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the repository and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	loader, ok := h.scenarioLoader(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	if err := h.Days.Reset(ctx); err != nil {
		writeDomainError(w, "Failed to reset data", err)
		return
	}
	if err := loader(ctx, h.now().Year()); err != nil {
		writeDomainError(w, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	log.Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario": req.ScenarioID,
		"plans":    len(h.Days.Consolidated()),
	})
}

func (h *Handler) scenarioLoader(id string) (func(context.Context, int) error, bool) {
	switch id {
	case "empty":
		return h.loadEmptyScenario, true
	case "summer-trip":
		return h.loadSummerTripScenario, true
	case "busy-year":
		return h.loadBusyYearScenario, true
	}
	return nil, false
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadEmptyScenario(ctx context.Context, year int) error {
	return h.Days.UpdateSettings(ctx, planner.DefaultSettings(year))
}

func (h *Handler) loadSummerTripScenario(ctx context.Context, year int) error {
	if err := h.Days.UpdateSettings(ctx, planner.DefaultSettings(year)); err != nil {
		return err
	}

	if err := h.addRange(ctx, year, time.August, 4, time.August, 15, planner.Plan{
		Title: "Road trip to Portugal", Tag: planner.TagTravel,
		Notes: "Lisbon, Porto, Algarve", RequiresHoliday: true,
	}); err != nil {
		return err
	}

	singles := []struct {
		month time.Month
		day   int
		plan  planner.Plan
	}{
		{time.March, 12, planner.Plan{Title: "Dentist", Tag: planner.TagHealth, Notes: "10:30"}},
		{time.July, 31, planner.Plan{Title: "Pack and car check", Tag: planner.TagPersonal}},
		{time.September, 1, planner.Plan{Title: "Back to the office", Tag: planner.TagWork}},
	}
	for _, s := range singles {
		date := planner.NewDate(year, s.month, s.day).String()
		if err := h.Days.AddPlan(ctx, date, s.plan); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadBusyYearScenario(ctx context.Context, year int) error {
	settings := planner.DefaultSettings(year)
	settings.RolloverDays = decimal.NewFromInt(4)
	settings.RolloverExpiryDate = planner.NewDate(year, time.March, 31).String()
	if err := h.Days.UpdateSettings(ctx, settings); err != nil {
		return err
	}

	breaks := []struct {
		fromMonth time.Month
		fromDay   int
		toMonth   time.Month
		toDay     int
		plan      planner.Plan
	}{
		{time.April, 13, time.April, 17, planner.Plan{Title: "Easter in the mountains", Tag: planner.TagFamily, RequiresHoliday: true}},
		{time.July, 20, time.July, 31, planner.Plan{Title: "Summer holidays", Tag: planner.TagTravel, RequiresHoliday: true}},
		{time.December, 22, time.December, 31, planner.Plan{Title: "Christmas at home", Tag: planner.TagFamily, RequiresHoliday: true}},
		{time.October, 5, time.October, 7, planner.Plan{Title: "Team offsite", Tag: planner.TagWork, Notes: "Valencia"}},
	}
	for _, b := range breaks {
		if err := h.addRange(ctx, year, b.fromMonth, b.fromDay, b.toMonth, b.toDay, b.plan); err != nil {
			return err
		}
	}

	appointments := []struct {
		month time.Month
		day   int
		plan  planner.Plan
	}{
		{time.February, 3, planner.Plan{Title: "Blood test", Tag: planner.TagHealth}},
		{time.May, 19, planner.Plan{Title: "Moving day", Tag: planner.TagPersonal, RequiresHoliday: true}},
		{time.June, 9, planner.Plan{Title: "Physio", Tag: planner.TagHealth, Notes: "Bring the MRI"}},
		{time.November, 14, planner.Plan{Title: "Wedding", Tag: planner.TagFamily, RequiresHoliday: true}},
	}
	for _, a := range appointments {
		date := planner.NewDate(year, a.month, a.day).String()
		if err := h.Days.AddPlan(ctx, date, a.plan); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) addRange(ctx context.Context, year int, fromMonth time.Month, fromDay int, toMonth time.Month, toDay int, p planner.Plan) error {
	start := planner.NewDate(year, fromMonth, fromDay)
	end := planner.NewDate(year, toMonth, toDay)
	return h.Days.AddMultiDayRange(ctx, start, end, p)
}
