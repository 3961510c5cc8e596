/*
dashboard.go - Single-month composition of the full pipeline

PURPOSE:
  One call that ties window resolution, aggregation, quota resolution and
  commission together for one rep and one month. This is what dashboard
  views and the commission calculator tool consume; they must agree on the
  numbers because they share this code path.

THE TWO DENOMINATORS:
  ProgressPct always divides by the calculated held goal. Commission
  always divides by the effective commission goal (override-aware). See
  quota.go for why these deliberately diverge.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DASHBOARD INPUT/OUTPUT
// =============================================================================

// DashboardInput collects the explicit dependencies for one month's numbers.
type DashboardInput struct {
	Snapshot     *Snapshot
	Rep          RepID
	Compensation CompensationStructure
	Override     *CommissionGoalOverride

	// Month is the explicit selector; nil means the current UTC month.
	Month *Month
	Now   time.Time
}

// ClientProgress is the per-client quota breakdown row.
type ClientProgress struct {
	Client       ClientID
	SetGoal      int
	HeldGoal     int
	MeetingsSet  int
	MeetingsHeld int
	SetPct       float64
	HeldPct      float64
}

// Dashboard is the derived view for one rep and one month. All fields are
// plain numeric types; the presentation layer formats them.
type Dashboard struct {
	Month  Month
	Counts MonthlyCounts

	SetGoal  int
	HeldGoal int

	// SetPct and HeldPct divide by the calculated goals.
	SetPct  float64
	HeldPct float64

	// CommissionGoal is the override-aware denominator used for the payout.
	CommissionGoal int
	Commission     decimal.Decimal

	Clients []ClientProgress
}

// =============================================================================
// COMPUTE
// =============================================================================

// ComputeDashboard runs the full per-month pipeline for one rep.
func ComputeDashboard(in DashboardInput) Dashboard {
	window := ResolveWindow(in.Now, in.Month)
	month := window.Month()

	counts := CountMonth(in.Snapshot.Meetings, RepScope(in.Rep), window, in.Now)
	quotas := RepQuotas(in.Snapshot.Assignments, in.Rep, month)
	commissionGoal := EffectiveCommissionGoal(quotas.HeldGoal, in.Override)

	return Dashboard{
		Month:          month,
		Counts:         counts,
		SetGoal:        quotas.SetGoal,
		HeldGoal:       quotas.HeldGoal,
		SetPct:         Progress(counts.MeetingsSet, quotas.SetGoal),
		HeldPct:        Progress(counts.MeetingsHeld, quotas.HeldGoal),
		CommissionGoal: commissionGoal,
		Commission:     Commission(counts.MeetingsHeld, commissionGoal, in.Compensation),
		Clients:        clientBreakdown(in, window, month),
	}
}

// WhatIfCommission answers the calculator tool's question: what would the
// payout be at a hypothetical held count this month? Same pure function,
// same override-aware goal.
func WhatIfCommission(in DashboardInput, hypotheticalHeld int) decimal.Decimal {
	window := ResolveWindow(in.Now, in.Month)
	quotas := RepQuotas(in.Snapshot.Assignments, in.Rep, window.Month())
	goal := EffectiveCommissionGoal(quotas.HeldGoal, in.Override)
	return Commission(hypotheticalHeld, goal, in.Compensation)
}

func clientBreakdown(in DashboardInput, window MonthWindow, month Month) []ClientProgress {
	// Collect clients from active assignments first, then from meetings, so
	// a client with a quota but no meetings yet still shows a row.
	seen := make(map[ClientID]bool)
	var order []ClientID

	for _, a := range in.Snapshot.Assignments {
		if a.Active && a.RepID == in.Rep && a.Month.Equal(month) && !seen[a.ClientID] {
			seen[a.ClientID] = true
			order = append(order, a.ClientID)
		}
	}
	for _, m := range in.Snapshot.Meetings {
		if m.RepID == in.Rep && !seen[m.ClientID] &&
			(window.Contains(m.BookedAt) || window.Contains(m.ScheduledAt)) {
			seen[m.ClientID] = true
			order = append(order, m.ClientID)
		}
	}

	rows := make([]ClientProgress, 0, len(order))
	for _, client := range order {
		counts := CountMonth(in.Snapshot.Meetings, PairScope(in.Rep, client), window, in.Now)
		quotas := ClientQuotas(in.Snapshot.Assignments, in.Rep, client, month)
		rows = append(rows, ClientProgress{
			Client:       client,
			SetGoal:      quotas.SetGoal,
			HeldGoal:     quotas.HeldGoal,
			MeetingsSet:  counts.MeetingsSet,
			MeetingsHeld: counts.MeetingsHeld,
			SetPct:       Progress(counts.MeetingsSet, quotas.SetGoal),
			HeldPct:      Progress(counts.MeetingsHeld, quotas.HeldGoal),
		})
	}
	return rows
}
