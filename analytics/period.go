// Package analytics computes the sales dashboard: calendar-period summaries,
// period-over-period variation and the daily distinct-invoice comparison
// against the previous year.
package analytics

import (
	"fmt"
	"time"
)

// PeriodKind selects how the calendar year is partitioned.
type PeriodKind string

const (
	Quarter   PeriodKind = "quarter"    // four 3-month periods
	FourMonth PeriodKind = "four_month" // three 4-month periods
	HalfYear  PeriodKind = "half_year"  // two 6-month periods
)

// months returns the period length in months.
func (k PeriodKind) months() int {
	switch k {
	case FourMonth:
		return 4
	case HalfYear:
		return 6
	default:
		return 3
	}
}

// label returns the display name of the kind.
func (k PeriodKind) label() string {
	switch k {
	case FourMonth:
		return "Four-month period"
	case HalfYear:
		return "Half-year"
	default:
		return "Quarter"
	}
}

// Period is one calendar-aligned slice of a year: quarter 2 of 2025, the
// second half of 2024, and so on. Start and End are inclusive calendar days
// at midnight UTC.
type Period struct {
	Kind  PeriodKind
	Index int
	Start time.Time
	End   time.Time
}

// PeriodOf returns the period of the given kind containing d.
func PeriodOf(d time.Time, kind PeriodKind) Period {
	size := kind.months()
	year := d.UTC().Year()
	idx := (int(d.UTC().Month()) - 1) / size

	start := time.Date(year, time.Month(idx*size+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, size, -1)
	return Period{Kind: kind, Index: idx + 1, Start: start, End: end}
}

// Previous returns the period of the same kind immediately before p,
// crossing the year boundary when needed.
func (p Period) Previous() Period {
	return PeriodOf(p.Start.AddDate(0, 0, -1), p.Kind)
}

// Contains reports whether the calendar day of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := t.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start) && !day.After(p.End)
}

// Label renders the period for display: "Quarter 1, 2025-01-01 → 2025-03-31".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d, %s → %s",
		p.Kind.label(), p.Index,
		p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}
