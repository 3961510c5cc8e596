/*
aggregate.go - Monthly count roll-up

PURPOSE:
  Computes set/held/confirmed/pending/no-show counts for one scope (all
  meetings, one rep, one client, or a rep x client pair) over one month
  window.

THE TWO-WINDOW RULE:
  "Set" counts key off BookedAt (when the rep did the work of booking).
  "Held" counts key off ScheduledAt (which month's quota the meeting
  fulfilled). A meeting booked in January and scheduled in February counts
  toward January's set and February's held: the counters are independent and
  are never reconciled or deduplicated across months.

SCOPING:
  Scope filters by rep and/or client. Nil fields mean "any". Direct
  meetings (empty RepID) only match when no rep filter is set.

SEE ALSO:
  - classify.go: The predicates applied per meeting
  - history.go: Re-runs this per trailing month
*/
package engine

import "time"

// =============================================================================
// SCOPE - Which meetings to count
// =============================================================================

// Scope restricts aggregation to one rep and/or one client. Zero-value
// Scope matches everything.
type Scope struct {
	Rep    *RepID
	Client *ClientID
}

func RepScope(rep RepID) Scope       { return Scope{Rep: &rep} }
func ClientScope(client ClientID) Scope { return Scope{Client: &client} }
func PairScope(rep RepID, client ClientID) Scope {
	return Scope{Rep: &rep, Client: &client}
}

// Matches reports whether the meeting belongs to this scope.
func (s Scope) Matches(m Meeting) bool {
	if s.Rep != nil && m.RepID != *s.Rep {
		return false
	}
	if s.Client != nil && m.ClientID != *s.Client {
		return false
	}
	return true
}

// =============================================================================
// MONTHLY COUNTS
// =============================================================================

// MonthlyCounts are the derived counts for one scope and one month window.
// All fields are plain integers; formatting belongs to the presentation
// layer.
type MonthlyCounts struct {
	Window MonthWindow

	// MeetingsSet counts ICP-qualified meetings booked in the window.
	// No-shows are included: a meeting that was booked and later became a
	// no-show was still set.
	MeetingsSet int

	// MeetingsHeld counts ICP-qualified held meetings scheduled in the
	// window.
	MeetingsHeld int

	// Confirmed, Pending, NoShows and PastDue are counted within the
	// booking window.
	Confirmed int
	Pending   int
	NoShows   int
	PastDue   int
}

// CountMonth computes the counts for one scope over one month window.
// Pure: repeated invocation over the same inputs yields identical output.
// Meetings missing the relevant temporal field simply fall outside every
// window.
func CountMonth(meetings []Meeting, scope Scope, w MonthWindow, now time.Time) MonthlyCounts {
	counts := MonthlyCounts{Window: w}

	for _, m := range meetings {
		if !scope.Matches(m) {
			continue
		}

		if w.Contains(m.BookedAt) {
			if IsICPQualified(m) {
				counts.MeetingsSet++
			}
			if IsConfirmedActive(m) {
				counts.Confirmed++
			}
			if IsPendingUnresolved(m) {
				counts.Pending++
			}
			if IsNoShow(m) {
				counts.NoShows++
			}
			if IsPastDueUnresolved(m, now) {
				counts.PastDue++
			}
		}

		if w.Contains(m.ScheduledAt) && IsHeld(m) && IsICPQualified(m) {
			counts.MeetingsHeld++
		}
	}

	return counts
}

// CountHeldInWindow returns only the held count for a scope and window.
// Used by the commission what-if path, which does not need the full
// breakdown.
func CountHeldInWindow(meetings []Meeting, scope Scope, w MonthWindow) int {
	held := 0
	for _, m := range meetings {
		if !scope.Matches(m) {
			continue
		}
		if w.Contains(m.ScheduledAt) && IsHeld(m) && IsICPQualified(m) {
			held++
		}
	}
	return held
}
