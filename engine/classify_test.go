package engine_test

import (
	"testing"
	"time"

	"github.com/warp/sdr-engine/engine"
)

// =============================================================================
// PREDICATE TESTS
// =============================================================================

func TestIsHeld_RequiresHeldAtAndNoNoShow(t *testing.T) {
	m := meeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))

	if engine.IsHeld(m) {
		t.Error("fresh meeting should not be held")
	}

	m.HeldAt = timePtr(utc(2025, time.March, 10))
	if !engine.IsHeld(m) {
		t.Error("meeting with held_at and no no-show should be held")
	}

	m.NoShow = true
	if engine.IsHeld(m) {
		t.Error("no-show must veto held even with held_at set")
	}
}

func TestIsICPQualified_DisqualificationIsOptIn(t *testing.T) {
	cases := []struct {
		status engine.ICPStatus
		want   bool
	}{
		{engine.ICPNone, true},
		{engine.ICPPending, true},
		{engine.ICPApproved, true},
		{engine.ICPNotQualified, false},
		{engine.ICPRejected, false},
		{engine.ICPDenied, false},
		{engine.ICPStatus("future_unknown_value"), true}, // unknown qualifies
	}

	for _, tc := range cases {
		m := meeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))
		m.ICPStatus = tc.status
		if got := engine.IsICPQualified(m); got != tc.want {
			t.Errorf("icp_status %q: expected qualified=%v, got %v", tc.status, tc.want, got)
		}
	}
}

func TestIsPastDueUnresolved(t *testing.T) {
	now := utc(2025, time.March, 20)

	m := meeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))
	if !engine.IsPastDueUnresolved(m, now) {
		t.Error("pending meeting with past slot should be past due")
	}

	// Each resolution removes it from the past-due list.
	held := m
	held.MarkHeld(utc(2025, time.March, 10))
	if engine.IsPastDueUnresolved(held, now) {
		t.Error("held meeting is resolved")
	}

	noShow := m
	noShow.MarkNoShow()
	if engine.IsPastDueUnresolved(noShow, now) {
		t.Error("no-show meeting is resolved")
	}

	lost := m
	lost.SetNotInterested(true)
	if engine.IsPastDueUnresolved(lost, now) {
		t.Error("not-interested meeting is resolved")
	}

	future := m
	future.ScheduledAt = utc(2025, time.March, 25)
	if engine.IsPastDueUnresolved(future, now) {
		t.Error("future meeting cannot be past due")
	}

	missing := m
	missing.ScheduledAt = time.Time{}
	if engine.IsPastDueUnresolved(missing, now) {
		t.Error("meeting without a slot cannot be past due")
	}
}

// =============================================================================
// LIFECYCLE TRANSITION TESTS
// =============================================================================

func TestLifecycle_ConfirmThenHold(t *testing.T) {
	m := meeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))

	m.Confirm(utc(2025, time.March, 5))
	if m.Status != engine.StatusConfirmed || m.ConfirmedAt == nil {
		t.Fatal("confirm should set status and timestamp")
	}

	m.MarkHeld(utc(2025, time.March, 10))
	if !engine.IsHeld(m) {
		t.Error("meeting should be held after MarkHeld")
	}
	if m.Status != engine.StatusConfirmed {
		t.Error("held meeting must be confirmed")
	}
}

func TestLifecycle_HoldDirectlyFromPending(t *testing.T) {
	// GIVEN: A pending meeting that previously no-showed
	// WHEN: It is marked held
	// THEN: NoShow is forced off and status forced to confirmed
	m := meeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))
	m.MarkNoShow()

	m.MarkHeld(utc(2025, time.March, 10))
	if m.NoShow {
		t.Error("MarkHeld must force no_show off")
	}
	if m.Status != engine.StatusConfirmed {
		t.Error("MarkHeld must force status to confirmed")
	}
}

func TestLifecycle_NoShowClearsHeldAt(t *testing.T) {
	m := heldMeeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))

	m.MarkNoShow()
	if m.HeldAt != nil {
		t.Error("MarkNoShow must clear held_at")
	}
	if engine.IsHeld(m) {
		t.Error("no-show meeting cannot be held")
	}
}

func TestLifecycle_ResetReversesEverything(t *testing.T) {
	m := heldMeeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))
	m.Confirm(utc(2025, time.March, 5))

	m.Reset()
	if m.Status != engine.StatusPending || m.ConfirmedAt != nil || m.HeldAt != nil || m.NoShow {
		t.Errorf("reset should return to pristine pending, got %+v", m)
	}
}

// =============================================================================
// DISPLAY STATE TESTS
// =============================================================================

func TestStateOf_Precedence(t *testing.T) {
	base := meeting("m1", "rep1", "c1", utc(2025, time.March, 1), utc(2025, time.March, 10))

	if got := engine.StateOf(base); got != engine.DisplayPending {
		t.Errorf("expected pending, got %v", got)
	}

	confirmed := base
	confirmed.Confirm(utc(2025, time.March, 5))
	if got := engine.StateOf(confirmed); got != engine.DisplayConfirmed {
		t.Errorf("expected confirmed, got %v", got)
	}

	held := confirmed
	held.MarkHeld(utc(2025, time.March, 10))
	if got := engine.StateOf(held); got != engine.DisplayHeld {
		t.Errorf("expected held, got %v", got)
	}

	// NoShow + NotInterested together must display no_show, so tallies that
	// sum to 100% never double-count.
	both := base
	both.MarkNoShow()
	both.SetNotInterested(true)
	if got := engine.StateOf(both); got != engine.DisplayNoShow {
		t.Errorf("expected no_show to outrank not_interested, got %v", got)
	}

	lost := base
	lost.SetNotInterested(true)
	if got := engine.StateOf(lost); got != engine.DisplayNotInterested {
		t.Errorf("expected not_interested, got %v", got)
	}
}
