/*
classify.go - Meeting lifecycle predicates and transitions

PURPOSE:
  Maps one meeting record onto the boolean predicates the aggregator
  consumes, and implements the lifecycle state machine the record store
  persists. Predicates are pure; transitions mutate only the receiver.

THE LIFECYCLE:
  Storage is status + flags; display states are derived:

    Pending ──→ Confirmed      (sets ConfirmedAt)
    {Pending,Confirmed} ──→ Held    (sets HeldAt, forces NoShow=false,
                                     forces status=confirmed)
    {Pending,Confirmed} ──→ NoShow  (sets NoShow=true, clears HeldAt)
    any ──→ Pending                 (manual reset: clears all)

  NotInterested is an orthogonal flag, not a mutually exclusive state.

KEY INVARIANTS:
  - A meeting is "held" iff HeldAt is set AND NoShow is false
  - ICP disqualification is opt-in: absent/pending/approved all qualify

SEE ALSO:
  - aggregate.go: Consumes these predicates per month window
*/
package engine

import "time"

// =============================================================================
// PREDICATES - Pure classification, no side effects
// =============================================================================

// IsHeld reports whether the meeting actually took place.
func IsHeld(m Meeting) bool {
	return m.HeldAt != nil && !m.NoShow
}

// IsICPQualified reports whether the meeting counts toward performance
// totals. Disqualification is opt-in: unknown values qualify.
func IsICPQualified(m Meeting) bool {
	switch m.ICPStatus {
	case ICPNotQualified, ICPRejected, ICPDenied:
		return false
	default:
		return true
	}
}

// IsNoShow reports whether the prospect failed to attend.
func IsNoShow(m Meeting) bool {
	return m.NoShow
}

// IsPendingUnresolved reports whether the meeting still awaits an outcome.
func IsPendingUnresolved(m Meeting) bool {
	return m.Status == StatusPending && !m.NoShow && m.HeldAt == nil
}

// IsConfirmedActive reports whether the meeting is confirmed and has not
// no-showed. Counted within the booking window by the aggregator.
func IsConfirmedActive(m Meeting) bool {
	return m.Status == StatusConfirmed && !m.NoShow
}

// IsPastDueUnresolved reports whether the meeting's slot has passed without
// any recorded outcome. These surface on follow-up lists.
func IsPastDueUnresolved(m Meeting, now time.Time) bool {
	if m.ScheduledAt.IsZero() {
		return false
	}
	return m.ScheduledAt.Before(now) &&
		m.Status == StatusPending &&
		!IsHeld(m) &&
		!m.NoShow &&
		!m.NoLongerInterested
}

// =============================================================================
// DISPLAY STATE - Derived, for presentation only
// =============================================================================

// DisplayState is the single state a UI shows for a meeting. Storage remains
// status + flags; this is a lossy projection for display.
type DisplayState string

const (
	DisplayPending       DisplayState = "pending"
	DisplayConfirmed     DisplayState = "confirmed"
	DisplayHeld          DisplayState = "held"
	DisplayNoShow        DisplayState = "no_show"
	DisplayNotInterested DisplayState = "not_interested"
)

// StateOf derives the display state. Held and NoShow outrank the stored
// status; NotInterested only shows when nothing stronger applies, so
// aggregate tallies that sum to 100% never double-count it with NoShow.
func StateOf(m Meeting) DisplayState {
	switch {
	case IsHeld(m):
		return DisplayHeld
	case m.NoShow:
		return DisplayNoShow
	case m.NoLongerInterested:
		return DisplayNotInterested
	case m.Status == StatusConfirmed:
		return DisplayConfirmed
	default:
		return DisplayPending
	}
}

// =============================================================================
// TRANSITIONS - The write-side state machine
// =============================================================================

// Confirm marks the meeting confirmed at the given instant.
func (m *Meeting) Confirm(at time.Time) {
	m.Status = StatusConfirmed
	t := at.UTC()
	m.ConfirmedAt = &t
}

// MarkHeld records the meeting as completed. Forces NoShow off and status
// to confirmed: a held meeting was necessarily attended.
func (m *Meeting) MarkHeld(at time.Time) {
	t := at.UTC()
	m.HeldAt = &t
	m.NoShow = false
	m.Status = StatusConfirmed
}

// MarkNoShow records a no-show. Clears HeldAt so the held invariant cannot
// be satisfied by stale data.
func (m *Meeting) MarkNoShow() {
	m.NoShow = true
	m.HeldAt = nil
}

// SetNotInterested toggles the orthogonal not-interested flag.
func (m *Meeting) SetNotInterested(v bool) {
	m.NoLongerInterested = v
}

// Reset returns the meeting to pristine pending. Manual correction path;
// any transition may be reversed this way.
func (m *Meeting) Reset() {
	m.Status = StatusPending
	m.ConfirmedAt = nil
	m.HeldAt = nil
	m.NoShow = false
}
