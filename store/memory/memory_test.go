package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/sdr-engine/engine"
	"github.com/warp/sdr-engine/store/memory"
)

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	m := engine.Meeting{
		ID:          "m-1",
		TenantID:    "t1",
		RepID:       "rep-1",
		ClientID:    "acme",
		BookedAt:    time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC),
		ScheduledAt: time.Date(2025, time.March, 5, 14, 0, 0, 0, time.UTC),
		Status:      engine.StatusPending,
	}
	require.NoError(t, store.SaveMeeting(ctx, m))

	got, err := store.GetMeeting(ctx, "m-1")
	require.NoError(t, err)
	got.NoShow = true // mutating the result must not touch the stored record

	again, err := store.GetMeeting(ctx, "m-1")
	require.NoError(t, err)
	assert.False(t, again.NoShow)
}

func TestMemoryStore_SnapshotScopedToTenant(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.SaveMeeting(ctx, engine.Meeting{ID: "m-1", TenantID: "t1", ClientID: "acme"}))
	require.NoError(t, store.SaveMeeting(ctx, engine.Meeting{ID: "m-2", TenantID: "t2", ClientID: "globex"}))
	require.NoError(t, store.SaveAssignment(ctx, engine.Assignment{ID: "a-1", TenantID: "t1"}))

	snap, err := store.TakeSnapshot(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, snap.Meetings, 1)
	require.Len(t, snap.Assignments, 1)
	assert.Equal(t, engine.MeetingID("m-1"), snap.Meetings[0].ID)
	assert.False(t, snap.TakenAt.IsZero())
}

func TestMemoryStore_NotFoundSentinels(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.GetMeeting(ctx, "nope")
	assert.ErrorIs(t, err, engine.ErrMeetingNotFound)
	_, err = store.GetAssignment(ctx, "nope")
	assert.ErrorIs(t, err, engine.ErrAssignmentNotFound)
	_, err = store.Compensation(ctx, "nope")
	assert.ErrorIs(t, err, engine.ErrCompensationNotFound)
	_, err = store.Override(ctx, "nope")
	assert.ErrorIs(t, err, engine.ErrOverrideNotFound)
	assert.ErrorIs(t, store.DeleteMeeting(ctx, "nope"), engine.ErrMeetingNotFound)
}

func TestMemoryStore_RevisionAdvancesOnWrites(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	rev0, err := store.Revision(ctx)
	require.NoError(t, err)

	require.NoError(t, store.SaveOverride(ctx, engine.CommissionGoalOverride{RepID: "rep-1", CommissionGoal: 3}))
	rev1, err := store.Revision(ctx)
	require.NoError(t, err)
	assert.Greater(t, rev1, rev0)

	// Reads do not advance it.
	_, err = store.TakeSnapshot(ctx, "t1")
	require.NoError(t, err)
	rev2, err := store.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, rev1, rev2)
}
