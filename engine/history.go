/*
history.go - Historical roll-up driver

PURPOSE:
  Re-runs the window/aggregate/quota/commission pipeline once per trailing
  calendar month to build trend data. Each month is computed in isolation
  from that month's own assignment rows and that month's own meeting set:
  no carry-over state, no cumulative counters, so a correction to one
  historical month never perturbs another.

SEE ALSO:
  - window.go: TrailingMonths
  - aggregate.go, quota.go, commission.go: The per-month pipeline
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHistoryMonths is the trailing window length when the caller does
// not specify one.
const DefaultHistoryMonths = 12

// MonthlySnapshot is one month's quota/commission entry in the time series.
type MonthlySnapshot struct {
	Month        Month
	SetGoal      int
	HeldGoal     int
	MeetingsSet  int
	MeetingsHeld int

	// ProgressPct divides held meetings by the calculated held goal, the
	// same figure the dashboard shows. The override affects Commission only.
	ProgressPct float64
	Commission  decimal.Decimal
}

// HistoryInput collects the explicit dependencies for a roll-up run.
type HistoryInput struct {
	Snapshot     *Snapshot
	Rep          RepID
	Compensation CompensationStructure
	Override     *CommissionGoalOverride

	// Months is the trailing window length; <= 0 means DefaultHistoryMonths.
	Months int
	Now    time.Time
}

// History produces the trailing time series, oldest first.
func History(in HistoryInput) []MonthlySnapshot {
	n := in.Months
	if n <= 0 {
		n = DefaultHistoryMonths
	}

	scope := RepScope(in.Rep)
	months := TrailingMonths(in.Now, n)
	series := make([]MonthlySnapshot, 0, len(months))

	for _, month := range months {
		counts := CountMonth(in.Snapshot.Meetings, scope, month.Window(), in.Now)
		quotas := RepQuotas(in.Snapshot.Assignments, in.Rep, month)
		commissionGoal := EffectiveCommissionGoal(quotas.HeldGoal, in.Override)

		series = append(series, MonthlySnapshot{
			Month:        month,
			SetGoal:      quotas.SetGoal,
			HeldGoal:     quotas.HeldGoal,
			MeetingsSet:  counts.MeetingsSet,
			MeetingsHeld: counts.MeetingsHeld,
			ProgressPct:  Progress(counts.MeetingsHeld, quotas.HeldGoal),
			Commission:   Commission(counts.MeetingsHeld, commissionGoal, in.Compensation),
		})
	}

	return series
}
