package planner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/year-planner/planner"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) planner.Date { return planner.MustParseDate(s) }

func trip(requiresHoliday bool) planner.Plan {
	return planner.Plan{
		ID:              "plan-1",
		Title:           "Flight to Paris",
		Tag:             planner.TagTravel,
		Notes:           "window seat",
		RequiresHoliday: requiresHoliday,
		CreatedAt:       1735689600000,
	}
}

func assertDerived(t *testing.T, days map[string]planner.DayRecord) {
	t.Helper()
	for d, rec := range days {
		want := false
		for _, p := range rec.Plans {
			want = want || p.RequiresHoliday
		}
		assert.Equal(t, want, rec.IsVacation, "vacation flag out of sync on %s", d)
	}
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

func TestIsWorkingDay(t *testing.T) {
	bank := planner.NewBankHolidaySet(planner.SpanishHolidays)

	assert.False(t, planner.IsWorkingDay(date("2025-05-03"), bank), "Saturday")
	assert.False(t, planner.IsWorkingDay(date("2025-05-04"), bank), "Sunday")
	assert.False(t, planner.IsWorkingDay(date("2025-05-01"), bank), "Fiesta del Trabajo")
	assert.True(t, planner.IsWorkingDay(date("2025-05-02"), bank), "plain Friday")
	assert.True(t, planner.IsWorkingDay(date("2025-05-01"), planner.BankHolidaySet{}), "no calendar")
}

func TestEachDay(t *testing.T) {
	days := planner.EachDay(date("2025-02-27"), date("2025-03-02"))
	require.Len(t, days, 4)
	assert.Equal(t, "2025-02-28", days[1].String())
	assert.Equal(t, "2025-03-01", days[2].String())

	assert.Empty(t, planner.EachDay(date("2025-03-02"), date("2025-03-01")))
}

func TestParseDate_Rejects(t *testing.T) {
	_, err := planner.ParseDate("2025-02-30")
	assert.Error(t, err)
	_, err = planner.ParseDate("05/01/2025")
	assert.Error(t, err)
}

// =============================================================================
// EXPANSION
// =============================================================================

func TestExpandRange_OneInstancePerDay(t *testing.T) {
	existing := map[string]planner.DayRecord{
		"2025-07-02": {Date: "2025-07-02", Plans: []planner.Plan{{ID: "dentist", Title: "Dentist", Tag: planner.TagHealth}}},
	}

	updates := planner.ExpandRange(trip(true), date("2025-07-01"), date("2025-07-03"), existing)

	require.Len(t, updates, 3)
	ids := map[string]bool{}
	for _, d := range []string{"2025-07-01", "2025-07-02", "2025-07-03"} {
		rec, ok := updates[d]
		require.True(t, ok, d)
		last := rec.Plans[len(rec.Plans)-1]
		assert.Equal(t, "plan-1", last.GroupID)
		assert.Equal(t, "Flight to Paris", last.Title)
		assert.NotEqual(t, "plan-1", last.ID)
		assert.False(t, ids[last.ID], "instance ids must be distinct")
		ids[last.ID] = true
		assert.True(t, rec.IsVacation)
	}

	// Existing plans are kept and come first.
	require.Len(t, updates["2025-07-02"].Plans, 2)
	assert.Equal(t, "dentist", updates["2025-07-02"].Plans[0].ID)

	// Input untouched.
	assert.Len(t, existing["2025-07-02"].Plans, 1)
	assertDerived(t, updates)
}

func TestExpandRange_KeepsExistingGroupID(t *testing.T) {
	p := trip(false)
	p.GroupID = "group-7"

	updates := planner.ExpandRange(p, date("2025-07-01"), date("2025-07-02"), nil)

	for _, rec := range updates {
		assert.Equal(t, "group-7", rec.Plans[0].GroupID)
		assert.False(t, rec.IsVacation)
	}
}

func TestExpandRange_InvalidRangeIsNoop(t *testing.T) {
	existing := map[string]planner.DayRecord{
		"2025-05-05": {Date: "2025-05-05", Plans: []planner.Plan{}},
	}

	updates := planner.ExpandRange(trip(true), date("2025-05-10"), date("2025-05-01"), existing)

	assert.Empty(t, updates)
	assert.Len(t, existing, 1)
	assert.Empty(t, existing["2025-05-05"].Plans)
}

// =============================================================================
// CONSOLIDATION
// =============================================================================

func TestConsolidate_RoundTrip(t *testing.T) {
	updates := planner.ExpandRange(trip(true), date("2025-08-11"), date("2025-08-15"), map[string]planner.DayRecord{})

	groups := planner.Consolidate(updates)

	require.Len(t, groups, 1)
	assert.Equal(t, "plan-1", groups[0].GroupID)
	assert.Equal(t, "2025-08-11", groups[0].StartDate)
	assert.Equal(t, "2025-08-15", groups[0].EndDate)
	assert.Equal(t, 5, groups[0].Days)
	assert.True(t, groups[0].Contiguous)
}

func TestConsolidate_OrderAndFallbackKey(t *testing.T) {
	days := planner.ExpandRange(trip(false), date("2025-03-10"), date("2025-03-11"), nil)
	days["2025-03-01"] = planner.DayRecord{Date: "2025-03-01", Plans: []planner.Plan{
		{ID: "b", Title: "B", Tag: planner.TagWork},
		{ID: "a", Title: "A", Tag: planner.TagWork},
	}}

	groups := planner.Consolidate(days)

	require.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].GroupID, "same start day keeps insertion order")
	assert.Equal(t, "a", groups[1].GroupID)
	assert.Equal(t, "plan-1", groups[2].GroupID)
}

func TestConsolidate_FlagsGaps(t *testing.T) {
	days := planner.ExpandRange(trip(false), date("2025-03-10"), date("2025-03-12"), nil)
	delete(days, "2025-03-11")

	groups := planner.Consolidate(days)

	require.Len(t, groups, 1)
	assert.Equal(t, "2025-03-10", groups[0].StartDate)
	assert.Equal(t, "2025-03-12", groups[0].EndDate)
	assert.Equal(t, 2, groups[0].Days)
	assert.False(t, groups[0].Contiguous)
}

func TestPlanRange(t *testing.T) {
	days := planner.ExpandRange(trip(false), date("2025-06-02"), date("2025-06-04"), nil)
	instance := days["2025-06-03"].Plans[0]

	start, end, ok := planner.PlanRange(instance, days)

	require.True(t, ok)
	assert.Equal(t, "2025-06-02", start)
	assert.Equal(t, "2025-06-04", end)

	_, _, ok = planner.PlanRange(planner.Plan{ID: "missing"}, days)
	assert.False(t, ok)
}

// =============================================================================
// REMOVAL AND EDIT
// =============================================================================

func TestRemoveGroup_Cascade(t *testing.T) {
	days := planner.ExpandRange(trip(true), date("2025-07-01"), date("2025-07-03"), nil)
	other := planner.Plan{ID: "gym", Title: "Gym", Tag: planner.TagHealth}
	days["2025-07-02"] = planner.AddToDay("2025-07-02", other, days)

	updates := planner.RemoveGroup("plan-1", days)

	require.Len(t, updates, 3)
	for d, rec := range updates {
		for _, p := range rec.Plans {
			assert.NotEqual(t, "plan-1", p.GroupID, d)
		}
		assert.False(t, rec.IsVacation, d)
	}
	assert.Len(t, updates["2025-07-02"].Plans, 1)
	assertDerived(t, updates)
}

func TestRemoveGroup_KeepsOtherVacation(t *testing.T) {
	days := planner.ExpandRange(trip(false), date("2025-07-01"), date("2025-07-01"), nil)
	leave := planner.Plan{ID: "leave", Title: "Day off", Tag: planner.TagPersonal, RequiresHoliday: true}
	days["2025-07-01"] = planner.AddToDay("2025-07-01", leave, days)

	updates := planner.RemoveGroup("plan-1", days)

	assert.True(t, updates["2025-07-01"].IsVacation)
}

func TestEditGroup_ReassignsGroup(t *testing.T) {
	days := planner.ExpandRange(trip(true), date("2025-07-01"), date("2025-07-03"), nil)
	original := days["2025-07-02"].Plans[0]

	edited := trip(false)
	edited.Title = "Train to Paris"
	result, ok := planner.EditGroup(original, date("2025-07-03"), date("2025-07-05"), edited, days)
	require.True(t, ok)

	merged := planner.MergeDays(days, result.Updates)
	assert.NotEqual(t, "plan-1", result.NewGroupID)
	assert.Equal(t, "plan-1", result.OldGroupID)

	for d, rec := range merged {
		for _, p := range rec.Plans {
			assert.NotEqual(t, "plan-1", p.GroupKey(), "old group left on %s", d)
		}
	}
	groups := planner.Consolidate(merged)
	require.Len(t, groups, 1)
	assert.Equal(t, result.NewGroupID, groups[0].GroupID)
	assert.Equal(t, "2025-07-03", groups[0].StartDate)
	assert.Equal(t, "2025-07-05", groups[0].EndDate)
	assert.Equal(t, "Train to Paris", groups[0].Plan.Title)
	assertDerived(t, merged)

	// 2025-07-01 and -02 lost the plan, -03 swapped it, -04/-05 gained it.
	assert.Len(t, result.Updates, 5)
	assert.Empty(t, merged["2025-07-01"].Plans)
}

func TestEditGroup_NotFoundIsNoop(t *testing.T) {
	days := planner.ExpandRange(trip(true), date("2025-07-01"), date("2025-07-01"), nil)

	_, ok := planner.EditGroup(planner.Plan{ID: "ghost"}, date("2025-07-01"), date("2025-07-02"), trip(false), days)

	assert.False(t, ok)
}

// =============================================================================
// ALLOWANCE
// =============================================================================

func TestVacationDaysUsed_CountsOnlyWorkingDays(t *testing.T) {
	leave := planner.Plan{ID: "x", Title: "Off", Tag: planner.TagPersonal, RequiresHoliday: true}
	days := map[string]planner.DayRecord{}
	for _, d := range []string{"2025-05-01", "2025-05-02", "2025-05-03"} {
		days[d] = planner.AddToDay(d, leave, days)
	}

	bank := planner.NewBankHolidaySet(planner.SpanishHolidays)
	assert.Equal(t, 1, planner.VacationDaysUsed(days, bank))
}

func TestAllowance(t *testing.T) {
	s := planner.HolidaySettings{
		BaseAllowance:      decimal.NewFromInt(22),
		RolloverDays:       decimal.RequireFromString("2.5"),
		RolloverExpiryDate: "2025-03-31",
	}

	summary := planner.Allowance(s, 25, date("2025-04-01"))

	assert.True(t, summary.Total.Equal(decimal.RequireFromString("24.5")))
	assert.True(t, summary.Remaining.Equal(decimal.RequireFromString("-0.5")))
	assert.True(t, summary.OverBudget)
	assert.True(t, summary.RolloverExpired)

	summary = planner.Allowance(s, 24, date("2025-03-31"))
	assert.False(t, summary.OverBudget)
	assert.False(t, summary.RolloverExpired)
}

func TestDefaultSettings(t *testing.T) {
	s := planner.DefaultSettings(2026)
	assert.True(t, s.BaseAllowance.Equal(decimal.NewFromInt(23)))
	assert.True(t, s.RolloverDays.IsZero())
	assert.Equal(t, "2026-06-30", s.RolloverExpiryDate)
}

// =============================================================================
// UPCOMING
// =============================================================================

func TestUpcoming(t *testing.T) {
	days := planner.ExpandRange(trip(true), date("2025-04-30"), date("2025-05-01"), nil)
	bank := planner.NewBankHolidaySet(planner.SpanishHolidays)

	got := planner.Upcoming(days, bank, date("2025-04-29"), 5, true)

	require.Len(t, got, 2)
	assert.Equal(t, "2025-04-30", got[0].Date)
	require.Len(t, got[1].Events, 3)
	assert.Equal(t, planner.EventHoliday, got[1].Events[0].Kind)
	assert.Equal(t, planner.EventPlan, got[1].Events[1].Kind)
	assert.Equal(t, planner.EventVacation, got[1].Events[2].Kind)
	assert.Equal(t, 5, planner.CountEvents(got))

	withoutBank := planner.Upcoming(days, bank, date("2025-04-29"), 5, false)
	assert.Equal(t, 4, planner.CountEvents(withoutBank))
}

func TestDaysBetween_LongSpans(t *testing.T) {
	assert.Equal(t, 0, planner.DaysBetween(date("2025-03-30"), date("2025-03-30")))
	assert.Equal(t, 365, planner.DaysBetween(date("2024-03-01"), date("2025-03-01")))
	// Past the range of time.Duration.
	assert.Equal(t, 3652058, planner.DaysBetween(date("0001-01-01"), date("9999-12-31")))
}

func TestValidateRange_Bounds(t *testing.T) {
	// A leap year fits exactly.
	s, e, err := planner.ValidateRange("2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, 365, planner.DaysBetween(s, e))

	_, _, err = planner.ValidateRange("2025-01-01", "2026-01-02")
	assert.ErrorIs(t, err, planner.ErrValidation)

	_, _, err = planner.ValidateRange("0001-01-01", "9999-12-31")
	assert.ErrorIs(t, err, planner.ErrValidation)

	_, _, err = planner.ValidateRange("2025-05-02", "2025-05-01")
	assert.ErrorIs(t, err, planner.ErrInvalidRange)
}
