package factory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/year-planner/factory"
	"github.com/warp/year-planner/planner"
	"github.com/warp/year-planner/store/document"
	"github.com/warp/year-planner/store/memory"
)

func TestRepositoryFactory_RemoteDisabled(t *testing.T) {
	local := memory.New()
	f := factory.NewRepositoryFactory(local, nil)

	assert.Same(t, local, f.Local())
	assert.False(t, f.RemoteEnabled())

	_, err := f.ForUser("alice")
	assert.ErrorIs(t, err, factory.ErrRemoteDisabled)
}

func TestRepositoryFactory_ForUser(t *testing.T) {
	db, err := document.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { document.Close(db) })

	f := factory.NewRepositoryFactory(memory.New(), db)
	require.True(t, f.RemoteEnabled())

	_, err = f.ForUser("  ")
	assert.ErrorIs(t, err, factory.ErrMissingUser)

	ctx := context.Background()
	alice, err := f.ForUser("alice")
	require.NoError(t, err)
	require.NoError(t, alice.SaveDayRecord(ctx, planner.DayRecord{
		Date:  "2025-03-03",
		Plans: []planner.Plan{{ID: "p", Title: "Physio", Tag: planner.TagHealth}},
	}))

	bob, err := f.ForUser("bob")
	require.NoError(t, err)
	rec, err := bob.GetDayRecord(ctx, "2025-03-03")
	require.NoError(t, err)
	assert.Nil(t, rec)

	again, err := f.ForUser("alice")
	require.NoError(t, err)
	rec, err = again.GetDayRecord(ctx, "2025-03-03")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Physio", rec.Plans[0].Title)
}
