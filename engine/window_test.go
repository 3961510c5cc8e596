package engine_test

import (
	"testing"
	"time"

	"github.com/warp/sdr-engine/engine"
)

// =============================================================================
// TEST HELPERS (shared across engine tests)
// =============================================================================

func utc(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

// meeting builds a qualified pending meeting booked and scheduled at the
// given instants.
func meeting(id string, rep engine.RepID, client engine.ClientID, bookedAt, scheduledAt time.Time) engine.Meeting {
	return engine.Meeting{
		ID:          engine.MeetingID(id),
		TenantID:    "t1",
		RepID:       rep,
		ClientID:    client,
		BookedAt:    bookedAt,
		ScheduledAt: scheduledAt,
		Status:      engine.StatusPending,
	}
}

func heldMeeting(id string, rep engine.RepID, client engine.ClientID, bookedAt, scheduledAt time.Time) engine.Meeting {
	m := meeting(id, rep, client, bookedAt, scheduledAt)
	m.MarkHeld(scheduledAt)
	return m
}

func assignment(id string, rep engine.RepID, client engine.ClientID, month engine.Month, setTarget, holdTarget int) engine.Assignment {
	return engine.Assignment{
		ID:                id,
		TenantID:          "t1",
		RepID:             rep,
		ClientID:          client,
		Month:             month,
		MonthlySetTarget:  setTarget,
		MonthlyHoldTarget: holdTarget,
		Active:            true,
	}
}

// =============================================================================
// MONTH WINDOW TESTS
// =============================================================================

func TestMonthWindow_HalfOpenBoundaries(t *testing.T) {
	w := engine.NewMonth(2025, time.March).Window()

	if !w.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("first instant of month should be inside the window")
	}
	if !w.Contains(time.Date(2025, time.March, 31, 23, 59, 59, 999999999, time.UTC)) {
		t.Error("last instant of month should be inside the window")
	}
	if w.Contains(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("first instant of next month should be outside the window")
	}
	if w.Contains(time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)) {
		t.Error("previous month should be outside the window")
	}
}

func TestMonthWindow_UTCRegardlessOfLocalZone(t *testing.T) {
	// GIVEN: An instant that is March 1 in UTC but still February 28 locally
	// THEN: The UTC month decides
	est := time.FixedZone("EST", -5*60*60)
	instant := time.Date(2025, time.February, 28, 23, 30, 0, 0, est) // 04:30 Mar 1 UTC

	w := engine.NewMonth(2025, time.March).Window()
	if !w.Contains(instant) {
		t.Error("window membership must follow the UTC month, not the local one")
	}

	if got := engine.MonthOf(instant); !got.Equal(engine.NewMonth(2025, time.March)) {
		t.Errorf("MonthOf should resolve in UTC, got %v", got)
	}
}

func TestResolveWindow_DefaultsToCurrentUTCMonth(t *testing.T) {
	now := utc(2025, time.July, 14)

	w := engine.ResolveWindow(now, nil)
	if !w.Month().Equal(engine.NewMonth(2025, time.July)) {
		t.Errorf("expected current month, got %v", w.Month())
	}

	explicit := engine.NewMonth(2024, time.December)
	w = engine.ResolveWindow(now, &explicit)
	if !w.Month().Equal(explicit) {
		t.Errorf("expected explicit month, got %v", w.Month())
	}
}

func TestMonthWindow_DecemberRollsIntoJanuary(t *testing.T) {
	w := engine.NewMonth(2024, time.December).Window()
	if w.End != time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("December window must end at next January 1, got %v", w.End)
	}
}

func TestMonthWindow_ZeroTimeNeverMatches(t *testing.T) {
	w := engine.NewMonth(2025, time.March).Window()
	if w.Contains(time.Time{}) {
		t.Error("zero time must be ineligible for every window")
	}
}

// =============================================================================
// TRAILING MONTHS TESTS
// =============================================================================

func TestTrailingMonths_OldestFirst(t *testing.T) {
	now := utc(2025, time.March, 15)

	months := engine.TrailingMonths(now, 3)
	want := []engine.Month{
		engine.NewMonth(2025, time.January),
		engine.NewMonth(2025, time.February),
		engine.NewMonth(2025, time.March),
	}

	if len(months) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(months))
	}
	for i := range want {
		if !months[i].Equal(want[i]) {
			t.Errorf("month %d: expected %v, got %v", i, want[i], months[i])
		}
	}
}

func TestTrailingMonths_CrossesYearBoundary(t *testing.T) {
	now := utc(2025, time.February, 1)

	months := engine.TrailingMonths(now, 4)
	if !months[0].Equal(engine.NewMonth(2024, time.November)) {
		t.Errorf("expected 2024-11 first, got %v", months[0])
	}
	if !months[3].Equal(engine.NewMonth(2025, time.February)) {
		t.Errorf("expected 2025-02 last, got %v", months[3])
	}
}

func TestTrailingMonths_NonPositiveCount(t *testing.T) {
	if got := engine.TrailingMonths(utc(2025, time.March, 1), 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}
