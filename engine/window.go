package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH - Calendar month at first-of-month granularity
// =============================================================================

// Month identifies one calendar month. It is the key for assignments and the
// unit of all quota/commission windows.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the UTC calendar month containing t.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m Month) Equal(other Month) bool { return m.Year == other.Year && m.Month == other.Month }

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// =============================================================================
// MONTH WINDOW - Inclusive-exclusive UTC month boundaries
// =============================================================================

// MonthWindow is the half-open interval [Start, End) covering one calendar
// month in UTC. All monthly filtering uses UTC boundaries regardless of the
// caller's local timezone, so the same meeting set is computed no matter
// where the aggregation runs.
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// Window returns the UTC window for an explicit month.
func (m Month) Window() MonthWindow {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return MonthWindow{Start: start, End: start.AddDate(0, 1, 0)}
}

// CurrentWindow returns the window for the UTC month containing now. This is
// the default when no explicit month selector is given.
func CurrentWindow(now time.Time) MonthWindow {
	return MonthOf(now).Window()
}

// ResolveWindow computes the window for an optional explicit selector,
// falling back to the current UTC month.
func ResolveWindow(now time.Time, selector *Month) MonthWindow {
	if selector != nil {
		return selector.Window()
	}
	return CurrentWindow(now)
}

// Contains reports whether t falls inside the half-open window. A zero t
// never matches; records missing a temporal field are ineligible rather
// than erroneous.
func (w MonthWindow) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	u := t.UTC()
	return !u.Before(w.Start) && u.Before(w.End)
}

// Month returns the calendar month this window covers.
func (w MonthWindow) Month() Month {
	return Month{Year: w.Start.Year(), Month: w.Start.Month()}
}

// TrailingMonths returns the n calendar months ending with the month
// containing now, oldest first. n <= 0 yields nil.
func TrailingMonths(now time.Time, n int) []Month {
	if n <= 0 {
		return nil
	}
	current := MonthOf(now)
	months := make([]Month, n)
	for i := 0; i < n; i++ {
		months[i] = current.AddMonths(i - n + 1)
	}
	return months
}
