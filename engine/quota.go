/*
quota.go - Effective set/held quota resolution

PURPOSE:
  Combines assignment rows into the denominators the dashboard and the
  commission calculator divide by.

TWO DENOMINATORS, ON PURPOSE:
  - CalculatedHeldGoal: sum of active assignments' hold targets. This is
    what dashboard progress bars always show.
  - EffectiveCommissionGoal: the override's figure when one exists, else
    the calculated goal. Used only in payout math.
  When an override exists these are different numbers. That divergence is
  a product rule, not a bug.

DEFENSIVE SUMMATION:
  Assignments are a multiset per (rep, client, month) key. Duplicates are
  summed, never deduplicated, because the source data allows accidental
  duplicate rows.

SEE ALSO:
  - commission.go: Consumes EffectiveCommissionGoal
*/
package engine

// =============================================================================
// QUOTAS
// =============================================================================

// Quotas are the resolved monthly targets for one rep. A rep with zero
// active assignments has all quotas zero.
type Quotas struct {
	SetGoal  int
	HeldGoal int
}

// RepQuotas sums set/hold targets over the rep's active assignments for the
// month. Inactive assignments are excluded; their historical meetings remain
// counted by the aggregator.
func RepQuotas(assignments []Assignment, rep RepID, month Month) Quotas {
	var q Quotas
	for _, a := range assignments {
		if !a.Active || a.RepID != rep || !a.Month.Equal(month) {
			continue
		}
		q.SetGoal += a.MonthlySetTarget
		q.HeldGoal += a.MonthlyHoldTarget
	}
	return q
}

// ClientQuotas sums targets over the rep's active assignments for one client
// and month. Summed across rows to stay correct under duplicate data.
func ClientQuotas(assignments []Assignment, rep RepID, client ClientID, month Month) Quotas {
	var q Quotas
	for _, a := range assignments {
		if !a.Active || a.RepID != rep || a.ClientID != client || !a.Month.Equal(month) {
			continue
		}
		q.SetGoal += a.MonthlySetTarget
		q.HeldGoal += a.MonthlyHoldTarget
	}
	return q
}

// EffectiveCommissionGoal returns the denominator for payout math: the
// override's goal when present, otherwise the calculated held goal. Dashboard
// progress must keep using the calculated goal regardless.
func EffectiveCommissionGoal(calculatedHeldGoal int, override *CommissionGoalOverride) int {
	if override != nil {
		return override.CommissionGoal
	}
	return calculatedHeldGoal
}

// Progress returns achievement as a percentage. Zero or negative goals
// short-circuit to 0 rather than dividing; progress is advisory and must
// never be NaN or infinite.
func Progress(count, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return float64(count) / float64(goal) * 100
}
