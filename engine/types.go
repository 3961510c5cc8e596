/*
Package engine provides the meeting lifecycle and commission aggregation core.

PURPOSE:
  This package contains the pure business rules of the SDR performance
  tracker: classifying a meeting record into its lifecycle state, deciding
  which calendar month a meeting counts toward, rolling up per-rep and
  per-client quota progress, and converting held-meeting counts into
  commission payouts.

KEY CONCEPTS IN THIS FILE (types.go):
  - Meeting: One scheduled prospect interaction with lifecycle timestamps
  - Assignment: The quota contract between a rep and a client for one month
  - CompensationStructure: How a rep is paid (flat per-meeting or tiered)
  - CommissionGoalOverride: Manual substitute for the calculated held quota

DESIGN PRINCIPLES:
  1. Purity: every computation takes its inputs (records, config, "now")
     as explicit arguments; no globals, no clocks, no I/O
  2. Precision: uses decimal.Decimal for all currency amounts
  3. Totality: every function is defined for every input; malformed
     records become ineligible, never errors
  4. Determinism: same inputs always produce bit-identical outputs

USAGE:
  snap := engine.NewSnapshot(meetings, assignments, now)
  counts := engine.CountMonth(snap.Meetings, engine.RepScope(repID), window)
  payout := engine.Commission(counts.MeetingsHeld, goal, structure)

SEE ALSO:
  - classify.go: Lifecycle predicates and transitions
  - aggregate.go: Monthly count roll-up
  - commission.go: Payout calculation
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MeetingID string
type RepID string
type ClientID string

// =============================================================================
// MEETING - One scheduled prospect interaction
// =============================================================================

// MeetingStatus is the stored status. NoShow and NoLongerInterested are
// independent flags that can co-occur with either status.
type MeetingStatus string

const (
	StatusPending   MeetingStatus = "pending"
	StatusConfirmed MeetingStatus = "confirmed"
)

// ICPStatus is the qualification gate. Disqualification is opt-in: an
// absent or unknown value counts as qualified.
type ICPStatus string

const (
	ICPNone         ICPStatus = ""
	ICPPending      ICPStatus = "pending"
	ICPApproved     ICPStatus = "approved"
	ICPNotQualified ICPStatus = "not_qualified"
	ICPRejected     ICPStatus = "rejected"
	ICPDenied       ICPStatus = "denied"
)

// Meeting is one scheduled prospect interaction.
//
// Temporal fields:
//   - BookedAt:    when the rep created the record (drives "set" counts)
//   - ScheduledAt: the meeting's calendar slot (drives "held" counts)
//   - ConfirmedAt: set when status becomes confirmed
//   - HeldAt:      set when the meeting is marked completed
//
// A meeting with a zero BookedAt or ScheduledAt is ineligible for the
// corresponding window-based counts (see aggregate.go); it is never an error.
type Meeting struct {
	ID       MeetingID
	TenantID string

	// RepID is empty for "direct" meetings sourced outside the rep pipeline.
	RepID    RepID
	ClientID ClientID

	BookedAt    time.Time
	ScheduledAt time.Time
	ConfirmedAt *time.Time
	HeldAt      *time.Time

	Status             MeetingStatus
	NoShow             bool
	NoLongerInterested bool
	ICPStatus          ICPStatus
}

// =============================================================================
// ASSIGNMENT - Quota contract for one (rep, client, month)
// =============================================================================

// Assignment links a rep to a client with set/hold targets for one calendar
// month. Duplicates for the same (rep, client, month) key are summed
// defensively rather than assumed unique. Deactivation, not deletion, is the
// normal removal path so historical attribution survives.
type Assignment struct {
	ID       string
	TenantID string

	RepID    RepID
	ClientID ClientID
	Month    Month

	MonthlySetTarget  int
	MonthlyHoldTarget int

	Active bool
}

// =============================================================================
// COMPENSATION - How a rep is paid
// =============================================================================

type CommissionType string

const (
	CommissionPerMeeting CommissionType = "per_meeting"
	CommissionGoalBased  CommissionType = "goal_based"
)

// MeetingRates are the flat rates for the per-meeting scheme. Every held
// meeting earns Booked; held meetings beyond the monthly goal additionally
// earn Held.
type MeetingRates struct {
	Booked decimal.Decimal
	Held   decimal.Decimal
}

// GoalTier maps a percentage-of-goal threshold to a flat bonus. Tiers are
// evaluated as a step function, highest qualifying threshold wins.
type GoalTier struct {
	Percentage int
	Bonus      decimal.Decimal
}

// CompensationStructure is one rep's pay scheme. MeetingRates is only
// meaningful for the per-meeting type, GoalTiers only for goal-based.
type CompensationStructure struct {
	RepID RepID
	Type  CommissionType

	MeetingRates MeetingRates
	GoalTiers    []GoalTier
}

// ZeroStructure is the defined substitute when a rep has no compensation
// structure: per-meeting with both rates zero, so the calculator stays total
// and downstream code never branches on nil.
func ZeroStructure(rep RepID) CompensationStructure {
	return CompensationStructure{
		RepID: rep,
		Type:  CommissionPerMeeting,
		MeetingRates: MeetingRates{
			Booked: decimal.Zero,
			Held:   decimal.Zero,
		},
	}
}

// CommissionGoalOverride replaces the calculated held quota in commission
// math only. Dashboard progress always shows the calculated figure; the
// divergence is a deliberate product rule.
type CommissionGoalOverride struct {
	RepID          RepID
	CommissionGoal int
}

// =============================================================================
// SNAPSHOT - Point-in-time input set
// =============================================================================

// Snapshot bundles the immutable input set for one computation run. Callers
// must fetch meetings and assignments in a single consistent read; fetching
// them separately can skew quota-vs-actual numbers if a write lands between
// the two reads.
type Snapshot struct {
	Meetings    []Meeting
	Assignments []Assignment
	TakenAt     time.Time
}

func NewSnapshot(meetings []Meeting, assignments []Assignment, takenAt time.Time) *Snapshot {
	return &Snapshot{
		Meetings:    meetings,
		Assignments: assignments,
		TakenAt:     takenAt,
	}
}
