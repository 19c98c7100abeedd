/*
Package planner provides the year-planner engine.

PURPOSE:
  Tracks single- and multi-day plans on a calendar, derives which days are
  paid leave, and accounts them against a yearly holiday allowance. Bank
  holidays are reference data overlaid on the calendar.

KEY CONCEPTS IN THIS FILE (types.go):
  - Plan: A schedulable item attached to one calendar day
  - DayRecord: Per-date aggregate of plans and the derived vacation flag
  - Holiday: A bank holiday (immutable reference data)
  - HolidaySettings: Allowance configuration (base + rollover)

DESIGN PRINCIPLES:
  1. Derivation: IsVacation is always recomputed from the plans of a day
  2. Fan-out: A multi-day plan is stored as one instance per day sharing a GroupID
  3. Pure engine: planning.go never touches persistence; daystore.go does

SEE ALSO:
  - planning.go: Expansion, consolidation, group removal and edit
  - daystore.go: Optimistic orchestration over a Repository
  - repository.go: Persistence contract
*/
package planner

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PLAN
// =============================================================================

// Tag is the category of a plan.
type Tag string

const (
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagTravel   Tag = "Travel"
	TagHealth   Tag = "Health"
	TagFamily   Tag = "Family"
	TagOther    Tag = "Other"
)

// Tags lists every valid tag in display order.
var Tags = []Tag{TagWork, TagPersonal, TagTravel, TagHealth, TagFamily, TagOther}

func (t Tag) Valid() bool {
	for _, v := range Tags {
		if t == v {
			return true
		}
	}
	return false
}

// Plan is a single schedulable item. Multi-day plans are stored as one
// instance per day, each with its own ID and a shared GroupID.
type Plan struct {
	ID              string `json:"id"`
	GroupID         string `json:"parentId,omitempty"`
	Title           string `json:"title"`
	Time            string `json:"time,omitempty"`
	Tag             Tag    `json:"tag"`
	Notes           string `json:"notes,omitempty"`
	RequiresHoliday bool   `json:"requiresHoliday,omitempty"`
	CreatedAt       int64  `json:"createdAt"` // epoch milliseconds
}

// GroupKey returns the identifier linking all instances of the logical plan.
func (p Plan) GroupKey() string {
	if p.GroupID != "" {
		return p.GroupID
	}
	return p.ID
}

// =============================================================================
// DAY RECORD
// =============================================================================

// DayRecord holds everything attached to one calendar date.
type DayRecord struct {
	Date       string `json:"date"` // YYYY-MM-DD
	IsVacation bool   `json:"isVacation"`
	Plans      []Plan `json:"plans"`
}

// EmptyDay returns the record used for a date with no stored data.
func EmptyDay(date string) DayRecord {
	return DayRecord{Date: date, Plans: []Plan{}}
}

// Clone returns a copy that shares no backing array with d.
func (d DayRecord) Clone() DayRecord {
	plans := make([]Plan, len(d.Plans))
	copy(plans, d.Plans)
	return DayRecord{Date: d.Date, IsVacation: d.IsVacation, Plans: plans}
}

// Derive recomputes IsVacation from the plans.
func (d DayRecord) Derive() DayRecord {
	d.IsVacation = anyRequiresHoliday(d.Plans)
	return d
}

// FindPlan returns the plan with the given instance id.
func (d DayRecord) FindPlan(id string) (Plan, bool) {
	for _, p := range d.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

func anyRequiresHoliday(plans []Plan) bool {
	for _, p := range plans {
		if p.RequiresHoliday {
			return true
		}
	}
	return false
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayType string

const HolidayTypeBank HolidayType = "bank_holiday"

// Holiday is a bank holiday.
type Holiday struct {
	Date   string      `json:"date"` // YYYY-MM-DD
	Name   string      `json:"name"`
	Type   HolidayType `json:"type"`
	Region string      `json:"region,omitempty"`
}

// HolidaySettings configures the paid-leave allowance.
type HolidaySettings struct {
	BaseAllowance      decimal.Decimal `json:"baseAllowance"`
	RolloverDays       decimal.Decimal `json:"rolloverDays"`
	RolloverExpiryDate string          `json:"rolloverExpiryDate"` // YYYY-MM-DD
}

// DefaultSettings returns 23 base days, no rollover, expiring June 30.
func DefaultSettings(year int) HolidaySettings {
	return HolidaySettings{
		BaseAllowance:      decimal.NewFromInt(23),
		RolloverDays:       decimal.Zero,
		RolloverExpiryDate: NewDate(year, 6, 30).String(),
	}
}

// TotalAllowance returns base + rollover.
func (s HolidaySettings) TotalAllowance() decimal.Decimal {
	return s.BaseAllowance.Add(s.RolloverDays)
}

// =============================================================================
// READ MODELS
// =============================================================================

// ConsolidatedPlan is one logical plan rebuilt from its daily instances.
type ConsolidatedPlan struct {
	GroupID    string `json:"groupId"`
	Plan       Plan   `json:"plan"` // first instance seen
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Days       int    `json:"days"`       // number of backing instances
	Contiguous bool   `json:"contiguous"` // every day in [StartDate, EndDate] has an instance
}

// AllowanceSummary compares used leave against the allowance.
type AllowanceSummary struct {
	Base            decimal.Decimal `json:"base"`
	Rollover        decimal.Decimal `json:"rollover"`
	Total           decimal.Decimal `json:"total"`
	Used            int             `json:"used"`
	Remaining       decimal.Decimal `json:"remaining"`
	OverBudget      bool            `json:"overBudget"`
	RolloverExpiry  string          `json:"rolloverExpiry"`
	RolloverExpired bool            `json:"rolloverExpired"`
}
