package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/year-planner/planner"
	"github.com/warp/year-planner/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func paris() planner.DayRecord {
	return planner.DayRecord{
		Date:       "2025-05-02",
		IsVacation: true,
		Plans: []planner.Plan{{
			ID: "i-1", GroupID: "g-1", Title: "Flight to Paris", Tag: planner.TagTravel,
			RequiresHoliday: true, CreatedAt: 1746000000000,
		}},
	}
}

func TestStore_DayRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	missing, err := store.GetDayRecord(ctx, "2025-05-02")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.SaveDayRecord(ctx, paris()))

	got, err := store.GetDayRecord(ctx, "2025-05-02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, paris(), *got)

	// Upsert replaces.
	emptied := planner.EmptyDay("2025-05-02")
	require.NoError(t, store.SaveDayRecord(ctx, emptied))
	got, err = store.GetDayRecord(ctx, "2025-05-02")
	require.NoError(t, err)
	assert.Empty(t, got.Plans)
	assert.False(t, got.IsVacation)
}

func TestStore_BatchAndAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	days := planner.ExpandRange(paris().Plans[0], planner.MustParseDate("2025-05-01"), planner.MustParseDate("2025-05-03"), nil)
	require.NoError(t, store.SaveDayRecords(ctx, planner.SortedRecords(days)))

	all, err := store.GetAllDayRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, days, all)
}

func TestStore_Settings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	none, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	want := planner.HolidaySettings{
		BaseAllowance:      decimal.RequireFromString("22.5"),
		RolloverDays:       decimal.NewFromInt(4),
		RolloverExpiryDate: "2025-06-30",
	}
	require.NoError(t, store.SaveSettings(ctx, want))

	got, err := store.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, want.BaseAllowance.Equal(got.BaseAllowance))
	assert.True(t, want.RolloverDays.Equal(got.RolloverDays))
	assert.Equal(t, want.RolloverExpiryDate, got.RolloverExpiryDate)

	// Settings never show up as a day.
	all, err := store.GetAllDayRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_SearchPlans(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDayRecord(ctx, paris()))
	require.NoError(t, store.SaveDayRecord(ctx, planner.DayRecord{
		Date:  "2025-05-06",
		Plans: []planner.Plan{{ID: "d", Title: "Dentist", Tag: planner.TagHealth, Notes: "Paris clinic"}},
	}))

	got, err := store.SearchPlans(ctx, "paris")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Flight to Paris", got[0].Title)
	assert.Equal(t, "Dentist", got[1].Title)

	got, err = store.SearchPlans(ctx, "travel")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDayRecord(ctx, paris()))

	require.NoError(t, store.Reset(ctx))

	all, err := store.GetAllDayRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_WithDayStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	days := planner.NewDayStore(store)
	require.NoError(t, days.LoadAll(ctx))
	require.NoError(t, days.AddMultiDayRange(ctx,
		planner.MustParseDate("2025-12-22"), planner.MustParseDate("2025-12-26"),
		planner.Plan{Title: "Christmas", Tag: planner.TagFamily, RequiresHoliday: true}))

	reloaded := planner.NewDayStore(store)
	require.NoError(t, reloaded.LoadAll(ctx))
	groups := reloaded.Consolidated()
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-12-22", groups[0].StartDate)
	assert.Equal(t, "2025-12-26", groups[0].EndDate)
	// 22, 23, 24, 26 are working days; 25 is a bank holiday.
	assert.Equal(t, 4, reloaded.VacationDaysUsed())
}
