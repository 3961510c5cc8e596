/*
commission.go - Payout calculation

PURPOSE:
  Converts a held-meeting count and a held goal into a currency amount
  under one of two schemes. Both are pure functions so the what-if
  calculator and the historical roll-up can invoke them freely.

PER-MEETING SCHEME:
  Every held meeting earns the base "booked" rate. Only the portion of
  held meetings beyond the monthly goal additionally earns the "held"
  bonus rate. Strict threshold, not a retroactive multiplier: meetings
  below goal never receive the bonus.

GOAL-BASED SCHEME:
  Tiers map percentage-of-goal thresholds to flat bonuses, evaluated as a
  step function: the highest threshold not exceeding actual achievement
  wins, in full. 99% of a 100% tier earns nothing from that tier.

TOTALITY:
  The calculator is defined for all inputs. Zero goals take the first
  branch (per-meeting) or pay nothing (goal-based). Duplicate tier
  percentages resolve deterministically via sort-then-first-match;
  rejecting duplicates at write time is the configuration layer's job
  (see factory package).

SEE ALSO:
  - quota.go: Supplies the held goal
  - history.go: Invokes this once per trailing month
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMMISSION - Entry point dispatching on scheme
// =============================================================================

// Commission computes the payout for a held count against a held goal.
// Unknown commission types pay zero.
func Commission(heldCount, heldGoal int, structure CompensationStructure) decimal.Decimal {
	switch structure.Type {
	case CommissionPerMeeting:
		return perMeetingCommission(heldCount, heldGoal, structure.MeetingRates)
	case CommissionGoalBased:
		return goalBasedCommission(heldCount, heldGoal, structure.GoalTiers)
	default:
		return decimal.Zero
	}
}

// =============================================================================
// PER-MEETING SCHEME
// =============================================================================

func perMeetingCommission(heldCount, heldGoal int, rates MeetingRates) decimal.Decimal {
	if heldCount <= 0 {
		return decimal.Zero
	}

	count := decimal.NewFromInt(int64(heldCount))

	// At or below goal (or no meaningful goal): base rate only.
	if heldGoal <= 0 || heldCount <= heldGoal {
		return count.Mul(rates.Booked)
	}

	goal := decimal.NewFromInt(int64(heldGoal))
	overage := decimal.NewFromInt(int64(heldCount - heldGoal))

	base := goal.Mul(rates.Booked)
	bonus := overage.Mul(rates.Booked.Add(rates.Held))
	return base.Add(bonus)
}

// =============================================================================
// GOAL-BASED SCHEME
// =============================================================================

func goalBasedCommission(heldCount, heldGoal int, tiers []GoalTier) decimal.Decimal {
	if len(tiers) == 0 || heldGoal <= 0 {
		return decimal.Zero
	}

	achieved := decimal.NewFromInt(int64(heldCount)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(heldGoal)))

	// Sort a copy descending by threshold; caller-supplied configuration is
	// never mutated.
	sorted := make([]GoalTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Percentage > sorted[j].Percentage
	})

	// First tier whose threshold does not exceed achievement wins, in full.
	for _, tier := range sorted {
		if decimal.NewFromInt(int64(tier.Percentage)).LessThanOrEqual(achieved) {
			return tier.Bonus
		}
	}
	return decimal.Zero
}
