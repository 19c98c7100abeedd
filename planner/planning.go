/*
planning.go - Pure planning engine

PURPOSE:
  Fans a logical multi-day plan out into per-day instances, fans them back
  in for display, and keeps the derived vacation flag consistent when
  groups are removed or edited.

PURITY:
  Every function here works on a snapshot of day records and returns only
  the records it touched. Inputs are never mutated; the caller decides how
  to merge and persist the result.

ROUND TRIP:
  Consolidate(ExpandRange(p, s, e, {})) == one group spanning [s, e]
*/
package planner

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// newID generates plan instance and group identifiers.
var newID = uuid.NewString

// =============================================================================
// EXPANSION
// =============================================================================

// ExpandRange creates one instance of base per day in [start, end] and
// appends it to that day's record. Every instance gets a fresh ID and the
// group id base.GroupKey(). A start after end yields an empty map.
//
// Every day of the span is marked as vacation when base.RequiresHoliday,
// weekends and bank holidays included; only VacationDaysUsed filters those.
func ExpandRange(base Plan, start, end Date, existing map[string]DayRecord) map[string]DayRecord {
	updates := make(map[string]DayRecord)
	if start.After(end) {
		return updates
	}

	groupID := base.GroupKey()
	for _, d := range EachDay(start, end) {
		key := d.String()
		day, ok := existing[key]
		if !ok {
			day = EmptyDay(key)
		}
		day = day.Clone()

		instance := base
		instance.ID = newID()
		instance.GroupID = groupID

		day.Plans = append(day.Plans, instance)
		day.IsVacation = day.IsVacation || anyRequiresHoliday(day.Plans)
		updates[key] = day
	}
	return updates
}

// AddToDay appends a single-day plan and re-derives the vacation flag.
func AddToDay(date string, p Plan, existing map[string]DayRecord) DayRecord {
	day, ok := existing[date]
	if !ok {
		day = EmptyDay(date)
	}
	day = day.Clone()
	day.Plans = append(day.Plans, p)
	return day.Derive()
}

// =============================================================================
// CONSOLIDATION
// =============================================================================

// Consolidate groups plan instances by group key into one entry per logical
// plan, ordered by start date. Groups starting on the same day keep the
// order in which their first instance appears on that day.
func Consolidate(days map[string]DayRecord) []ConsolidatedPlan {
	type group struct {
		entry ConsolidatedPlan
		dates map[string]bool
		order int
	}

	groups := make(map[string]*group)
	var order int
	for _, date := range sortedDates(days) {
		for _, p := range days[date].Plans {
			key := p.GroupKey()
			g, ok := groups[key]
			if !ok {
				g = &group{
					entry: ConsolidatedPlan{GroupID: key, Plan: p, StartDate: date, EndDate: date},
					dates: make(map[string]bool),
					order: order,
				}
				order++
				groups[key] = g
			}
			if date < g.entry.StartDate {
				g.entry.StartDate = date
			}
			if date > g.entry.EndDate {
				g.entry.EndDate = date
			}
			g.dates[date] = true
		}
	}

	sorted := make([]*group, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].entry.StartDate != sorted[j].entry.StartDate {
			return sorted[i].entry.StartDate < sorted[j].entry.StartDate
		}
		return sorted[i].order < sorted[j].order
	})

	out := make([]ConsolidatedPlan, 0, len(sorted))
	for _, g := range sorted {
		g.entry.Days = len(g.dates)
		g.entry.Contiguous = isContiguous(g.entry.StartDate, g.entry.EndDate, len(g.dates))
		out = append(out, g.entry)
	}
	return out
}

func isContiguous(start, end string, distinctDays int) bool {
	s, err1 := ParseDate(start)
	e, err2 := ParseDate(end)
	if err1 != nil || err2 != nil {
		return false
	}
	return DaysBetween(s, e)+1 == distinctDays
}

// PlanRange returns the first and last date holding an instance of p's group.
func PlanRange(p Plan, days map[string]DayRecord) (start, end string, ok bool) {
	key := p.GroupKey()
	for _, date := range sortedDates(days) {
		for _, q := range days[date].Plans {
			if q.ID == key || q.GroupKey() == key {
				if !ok {
					start, ok = date, true
				}
				end = date
				break
			}
		}
	}
	return start, end, ok
}

// =============================================================================
// REMOVAL AND EDIT
// =============================================================================

// RemoveGroup drops every instance of the group and returns the days that
// held at least one, with the vacation flag re-derived.
func RemoveGroup(groupID string, days map[string]DayRecord) map[string]DayRecord {
	updates := make(map[string]DayRecord)
	for date, day := range days {
		kept := make([]Plan, 0, len(day.Plans))
		for _, p := range day.Plans {
			if p.GroupKey() != groupID {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(day.Plans) {
			continue
		}
		updates[date] = DayRecord{Date: day.Date, Plans: kept}.Derive()
	}
	return updates
}

// RemoveFromDay drops a single instance by id.
func RemoveFromDay(day DayRecord, planID string) (DayRecord, bool) {
	kept := make([]Plan, 0, len(day.Plans))
	for _, p := range day.Plans {
		if p.ID != planID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(day.Plans) {
		return day, false
	}
	return DayRecord{Date: day.Date, Plans: kept}.Derive(), true
}

// EditResult holds the days touched by EditGroup.
type EditResult struct {
	Updates    map[string]DayRecord
	OldGroupID string
	NewGroupID string
}

// EditGroup replaces a logical plan: the original group is removed and
// newData is expanded over [newStart, newEnd] under a fresh group id.
// It returns false, with nothing changed, when the original group is not
// found in days or the new range is inverted.
func EditGroup(original Plan, newStart, newEnd Date, newData Plan, days map[string]DayRecord) (EditResult, bool) {
	if newStart.After(newEnd) {
		return EditResult{}, false
	}
	oldGroup := original.GroupKey()
	removed := RemoveGroup(oldGroup, days)
	if len(removed) == 0 {
		return EditResult{}, false
	}

	fresh := newData
	fresh.ID = newID()
	fresh.GroupID = fresh.ID
	if fresh.CreatedAt == 0 {
		fresh.CreatedAt = original.CreatedAt
	}

	added := ExpandRange(fresh, newStart, newEnd, MergeDays(days, removed))
	return EditResult{
		Updates:    MergeDays(removed, added),
		OldGroupID: oldGroup,
		NewGroupID: fresh.GroupID,
	}, true
}

// =============================================================================
// ALLOWANCE
// =============================================================================

// VacationDaysUsed counts vacation days that fall on working days.
func VacationDaysUsed(days map[string]DayRecord, bankHolidays BankHolidaySet) int {
	used := 0
	for _, day := range days {
		if !day.IsVacation {
			continue
		}
		d, err := ParseDate(day.Date)
		if err != nil {
			continue
		}
		if IsWorkingDay(d, bankHolidays) {
			used++
		}
	}
	return used
}

// Allowance compares used days against base + rollover as of a date.
func Allowance(s HolidaySettings, used int, asOf Date) AllowanceSummary {
	total := s.TotalAllowance()
	usedDec := decimal.NewFromInt(int64(used))
	summary := AllowanceSummary{
		Base:           s.BaseAllowance,
		Rollover:       s.RolloverDays,
		Total:          total,
		Used:           used,
		Remaining:      total.Sub(usedDec),
		OverBudget:     usedDec.GreaterThan(total),
		RolloverExpiry: s.RolloverExpiryDate,
	}
	if expiry, err := ParseDate(s.RolloverExpiryDate); err == nil {
		summary.RolloverExpired = asOf.After(expiry)
	}
	return summary
}

// =============================================================================
// MAP HELPERS
// =============================================================================

// MergeDays returns a new map with updates laid over base.
func MergeDays(base, updates map[string]DayRecord) map[string]DayRecord {
	out := make(map[string]DayRecord, len(base)+len(updates))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return out
}

// CloneDays deep-copies a day map.
func CloneDays(days map[string]DayRecord) map[string]DayRecord {
	out := make(map[string]DayRecord, len(days))
	for k, v := range days {
		out[k] = v.Clone()
	}
	return out
}

func sortedDates(days map[string]DayRecord) []string {
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
