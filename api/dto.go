/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Read models from the
  planner package (DayRecord, ConsolidatedPlan, AllowanceSummary,
  UpcomingDay) are returned as-is; only request bodies and wrappers live
  here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers via planner.Validate*, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - planner/types.go: Domain read models
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/year-planner/planner"
)

// =============================================================================
// PLANS
// =============================================================================

// PlanRequest creates or edits a plan over [start_date, end_date].
// An empty end_date means a single day.
type PlanRequest struct {
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date,omitempty"`
	Title           string      `json:"title"`
	Time            string      `json:"time,omitempty"`
	Tag             planner.Tag `json:"tag"`
	Notes           string      `json:"notes,omitempty"`
	RequiresHoliday bool        `json:"requires_holiday"`
}

func (r PlanRequest) plan() planner.Plan {
	return planner.Plan{
		Title:           r.Title,
		Time:            r.Time,
		Tag:             r.Tag,
		Notes:           r.Notes,
		RequiresHoliday: r.RequiresHoliday,
	}
}

// DayPlanRequest adds a plan to the day in the URL.
type DayPlanRequest struct {
	Title           string      `json:"title"`
	Time            string      `json:"time,omitempty"`
	Tag             planner.Tag `json:"tag"`
	Notes           string      `json:"notes,omitempty"`
	RequiresHoliday bool        `json:"requires_holiday"`
}

// PlanRangeDTO is the span of a plan's group.
type PlanRangeDTO struct {
	PlanID    string `json:"plan_id"`
	GroupID   string `json:"group_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SearchResultDTO wraps search hits.
type SearchResultDTO struct {
	Query   string         `json:"query"`
	Results []planner.Plan `json:"results"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsRequest replaces the holiday settings. Amounts accept JSON
// numbers or strings.
type SettingsRequest struct {
	BaseAllowance      decimal.Decimal `json:"baseAllowance"`
	RolloverDays       decimal.Decimal `json:"rolloverDays"`
	RolloverExpiryDate string          `json:"rolloverExpiryDate"`
}

func (r SettingsRequest) settings() planner.HolidaySettings {
	return planner.HolidaySettings{
		BaseAllowance:      r.BaseAllowance,
		RolloverDays:       r.RolloverDays,
		RolloverExpiryDate: r.RolloverExpiryDate,
	}
}

// =============================================================================
// UPCOMING
// =============================================================================

// UpcomingDTO is the upcoming panel.
type UpcomingDTO struct {
	From  string                `json:"from"`
	Days  int                   `json:"days"`
	Count int                   `json:"count"`
	Items []planner.UpcomingDay `json:"items"`
}

// =============================================================================
// SESSION
// =============================================================================

type SessionRequest struct {
	UserID string `json:"user_id"`
}

// SessionDTO describes the active repository.
type SessionDTO struct {
	UserID    string `json:"user_id,omitempty"`
	SignedIn  bool   `json:"signed_in"`
	Available bool   `json:"remote_available"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
