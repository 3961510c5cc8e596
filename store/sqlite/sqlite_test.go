package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/sdr-engine/engine"
	"github.com/warp/sdr-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testMeeting(id, rep, client string) engine.Meeting {
	return engine.Meeting{
		ID:          engine.MeetingID(id),
		TenantID:    "t1",
		RepID:       engine.RepID(rep),
		ClientID:    engine.ClientID(client),
		BookedAt:    time.Date(2025, time.March, 2, 9, 30, 0, 0, time.UTC),
		ScheduledAt: time.Date(2025, time.March, 5, 14, 0, 0, 0, time.UTC),
		Status:      engine.StatusPending,
	}
}

func testAssignment(id, rep, client string) engine.Assignment {
	return engine.Assignment{
		ID:                id,
		TenantID:          "t1",
		RepID:             engine.RepID(rep),
		ClientID:          engine.ClientID(client),
		Month:             engine.NewMonth(2025, time.March),
		MonthlySetTarget:  8,
		MonthlyHoldTarget: 5,
		Active:            true,
	}
}

// =============================================================================
// MEETING PERSISTENCE
// =============================================================================

func TestSQLiteStore_MeetingRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	held := time.Date(2025, time.March, 5, 14, 5, 0, 0, time.UTC)
	m := testMeeting("m-1", "rep-1", "acme")
	m.Status = engine.StatusConfirmed
	m.HeldAt = &held
	m.ICPStatus = engine.ICPApproved

	require.NoError(t, store.SaveMeeting(ctx, m))

	got, err := store.GetMeeting(ctx, "m-1")
	require.NoError(t, err)

	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.TenantID, got.TenantID)
	assert.Equal(t, m.RepID, got.RepID)
	assert.Equal(t, m.ClientID, got.ClientID)
	assert.True(t, m.BookedAt.Equal(got.BookedAt))
	assert.True(t, m.ScheduledAt.Equal(got.ScheduledAt))
	require.NotNil(t, got.HeldAt)
	assert.True(t, held.Equal(*got.HeldAt))
	assert.Nil(t, got.ConfirmedAt)
	assert.Equal(t, engine.StatusConfirmed, got.Status)
	assert.Equal(t, engine.ICPApproved, got.ICPStatus)
	assert.False(t, got.NoShow)
}

func TestSQLiteStore_MeetingUpsertReplacesFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := testMeeting("m-1", "rep-1", "acme")
	require.NoError(t, store.SaveMeeting(ctx, m))

	m.NoShow = true
	m.ICPStatus = engine.ICPRejected
	require.NoError(t, store.SaveMeeting(ctx, m))

	got, err := store.GetMeeting(ctx, "m-1")
	require.NoError(t, err)
	assert.True(t, got.NoShow)
	assert.Equal(t, engine.ICPRejected, got.ICPStatus)
}

func TestSQLiteStore_MeetingNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetMeeting(ctx, "nope")
	assert.ErrorIs(t, err, engine.ErrMeetingNotFound)

	err = store.DeleteMeeting(ctx, "nope")
	assert.ErrorIs(t, err, engine.ErrMeetingNotFound)
}

func TestSQLiteStore_DeleteMeeting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMeeting(ctx, testMeeting("m-1", "rep-1", "acme")))
	require.NoError(t, store.DeleteMeeting(ctx, "m-1"))

	_, err := store.GetMeeting(ctx, "m-1")
	assert.ErrorIs(t, err, engine.ErrMeetingNotFound)
}

// =============================================================================
// ASSIGNMENT PERSISTENCE
// =============================================================================

func TestSQLiteStore_AssignmentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testAssignment("a-1", "rep-1", "acme")
	require.NoError(t, store.SaveAssignment(ctx, a))

	got, err := store.GetAssignment(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, a, *got)
}

func TestSQLiteStore_AssignmentNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetAssignment(context.Background(), "nope")
	assert.ErrorIs(t, err, engine.ErrAssignmentNotFound)
}

// =============================================================================
// COMPENSATION PERSISTENCE
// =============================================================================

func TestSQLiteStore_CompensationRoundTrip_PerMeeting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cs := engine.CompensationStructure{
		RepID: "rep-1",
		Type:  engine.CommissionPerMeeting,
		MeetingRates: engine.MeetingRates{
			Booked: decimal.RequireFromString("12.50"),
			Held:   decimal.RequireFromString("37.25"),
		},
	}
	require.NoError(t, store.SaveCompensation(ctx, cs))

	got, err := store.Compensation(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, engine.CommissionPerMeeting, got.Type)
	assert.True(t, got.MeetingRates.Booked.Equal(cs.MeetingRates.Booked))
	assert.True(t, got.MeetingRates.Held.Equal(cs.MeetingRates.Held))
}

func TestSQLiteStore_CompensationRoundTrip_GoalBased(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cs := engine.CompensationStructure{
		RepID: "rep-2",
		Type:  engine.CommissionGoalBased,
		GoalTiers: []engine.GoalTier{
			{Percentage: 60, Bonus: decimal.NewFromInt(200)},
			{Percentage: 100, Bonus: decimal.NewFromInt(500)},
			{Percentage: 140, Bonus: decimal.NewFromInt(1500)},
		},
	}
	require.NoError(t, store.SaveCompensation(ctx, cs))

	got, err := store.Compensation(ctx, "rep-2")
	require.NoError(t, err)
	require.Len(t, got.GoalTiers, 3)
	assert.Equal(t, 140, got.GoalTiers[2].Percentage)
	assert.True(t, got.GoalTiers[2].Bonus.Equal(decimal.NewFromInt(1500)))
}

func TestSQLiteStore_CompensationNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Compensation(context.Background(), "nope")
	assert.ErrorIs(t, err, engine.ErrCompensationNotFound)
}

// =============================================================================
// OVERRIDE PERSISTENCE
// =============================================================================

func TestSQLiteStore_OverrideLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOverride(ctx, engine.CommissionGoalOverride{RepID: "rep-1", CommissionGoal: 5}))

	got, err := store.Override(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.CommissionGoal)

	// Upsert replaces the value.
	require.NoError(t, store.SaveOverride(ctx, engine.CommissionGoalOverride{RepID: "rep-1", CommissionGoal: 9}))
	got, err = store.Override(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.CommissionGoal)

	require.NoError(t, store.DeleteOverride(ctx, "rep-1"))
	_, err = store.Override(ctx, "rep-1")
	assert.ErrorIs(t, err, engine.ErrOverrideNotFound)
}

// =============================================================================
// SNAPSHOT AND REVISION
// =============================================================================

func TestSQLiteStore_SnapshotScopedToTenant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m1 := testMeeting("m-1", "rep-1", "acme")
	m2 := testMeeting("m-2", "rep-2", "globex")
	m2.TenantID = "t2"
	require.NoError(t, store.SaveMeeting(ctx, m1))
	require.NoError(t, store.SaveMeeting(ctx, m2))

	a1 := testAssignment("a-1", "rep-1", "acme")
	a2 := testAssignment("a-2", "rep-2", "globex")
	a2.TenantID = "t2"
	require.NoError(t, store.SaveAssignment(ctx, a1))
	require.NoError(t, store.SaveAssignment(ctx, a2))

	snap, err := store.TakeSnapshot(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, snap.Meetings, 1)
	require.Len(t, snap.Assignments, 1)
	assert.Equal(t, engine.MeetingID("m-1"), snap.Meetings[0].ID)
	assert.Equal(t, "a-1", snap.Assignments[0].ID)
	assert.False(t, snap.TakenAt.IsZero())
}

func TestSQLiteStore_RevisionBumpsOnEveryWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rev0, err := store.Revision(ctx)
	require.NoError(t, err)

	require.NoError(t, store.SaveMeeting(ctx, testMeeting("m-1", "rep-1", "acme")))
	rev1, err := store.Revision(ctx)
	require.NoError(t, err)
	assert.Greater(t, rev1, rev0)

	require.NoError(t, store.SaveAssignment(ctx, testAssignment("a-1", "rep-1", "acme")))
	rev2, err := store.Revision(ctx)
	require.NoError(t, err)
	assert.Greater(t, rev2, rev1)

	require.NoError(t, store.DeleteMeeting(ctx, "m-1"))
	rev3, err := store.Revision(ctx)
	require.NoError(t, err)
	assert.Greater(t, rev3, rev2)

	// Reads leave the revision alone.
	_, err = store.TakeSnapshot(ctx, "t1")
	require.NoError(t, err)
	rev4, err := store.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, rev3, rev4)
}

func TestSQLiteStore_SnapshotFeedsEngineDirectly(t *testing.T) {
	// The persisted rows must come back in a shape the pure pipeline accepts.
	store := newTestStore(t)
	ctx := context.Background()

	held := time.Date(2025, time.March, 5, 14, 0, 0, 0, time.UTC)
	m := testMeeting("m-1", "rep-1", "acme")
	m.Status = engine.StatusConfirmed
	m.HeldAt = &held
	require.NoError(t, store.SaveMeeting(ctx, m))
	require.NoError(t, store.SaveAssignment(ctx, testAssignment("a-1", "rep-1", "acme")))

	snap, err := store.TakeSnapshot(ctx, "t1")
	require.NoError(t, err)

	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	counts := engine.CountMonth(snap.Meetings, engine.RepScope("rep-1"), engine.CurrentWindow(now), now)
	assert.Equal(t, 1, counts.MeetingsSet)
	assert.Equal(t, 1, counts.MeetingsHeld)

	quotas := engine.RepQuotas(snap.Assignments, "rep-1", engine.NewMonth(2025, time.March))
	assert.Equal(t, 8, quotas.SetGoal)
	assert.Equal(t, 5, quotas.HeldGoal)
}
