/*
period.go - Inclusive date windows for reporting

PURPOSE:
  Every report in the system filters a log to a date window. Windows are
  day-granular and inclusive on BOTH boundaries: a record dated exactly on the
  start or end day belongs to the window. Named ranges (daily, weekly, monthly,
  yearly) are computed relative to "now" at call time.

  Day boundaries are UTC. Records are stamped with Now() so the day a record
  is stored under matches the day its window filters on.

SEE ALSO:
  - report.go: Uses Period to filter records
*/
package ledger

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Inclusive [Start, End] day window
// =============================================================================

type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the period, comparing at day
// granularity so boundary dates are included regardless of time of day.
func (p Period) Contains(t time.Time) bool {
	day := dayOf(t)
	return !day.Before(dayOf(p.Start)) && !day.After(dayOf(p.End))
}

func (p Period) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + "]"
}

func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Now is the clock every ledger stamps records with. Timestamps are stored
// and day-filtered in UTC, so the stamp is taken in UTC too.
func Now() time.Time { return time.Now().UTC() }

// =============================================================================
// NAMED RANGES
// =============================================================================

type RangeKind string

const (
	RangeDaily   RangeKind = "daily"
	RangeWeekly  RangeKind = "weekly"
	RangeMonthly RangeKind = "monthly"
	RangeYearly  RangeKind = "yearly"
	RangeCustom  RangeKind = "custom"
)

// RangeFor returns the period a named range denotes relative to now.
// Weekly is the calendar week starting Monday; monthly and yearly are
// calendar months and years.
func RangeFor(kind RangeKind, now time.Time) Period {
	today := dayOf(now)
	switch kind {
	case RangeDaily:
		return Period{Start: today, End: today}

	case RangeWeekly:
		offset := int(today.Weekday()) - int(time.Monday)
		if offset < 0 {
			offset += 7 // Sunday
		}
		start := today.AddDate(0, 0, -offset)
		return Period{Start: start, End: start.AddDate(0, 0, 6)}

	case RangeMonthly:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}

	case RangeYearly:
		return Period{
			Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		}

	default:
		return Period{Start: today, End: today}
	}
}

// Custom returns an explicit [start, end] period.
func Custom(start, end time.Time) Period {
	return Period{Start: dayOf(start), End: dayOf(end)}
}

// Label returns the human-readable name for a period of the given kind,
// used as the range label on report results.
func Label(kind RangeKind, p Period) string {
	switch kind {
	case RangeDaily:
		return p.Start.Format("2006-01-02")
	case RangeWeekly:
		return "Week of " + p.Start.Format("2006-01-02")
	case RangeMonthly:
		return p.Start.Format("January 2006")
	case RangeYearly:
		return fmt.Sprintf("%d", p.Start.Year())
	default:
		return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
	}
}
