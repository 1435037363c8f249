package analytics

import (
	"math"
	"time"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// PercentChange is the relative delta in percent. A zero baseline yields +Inf when the
// current value is positive and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// Compare builds a KPI whose change is a percentage of the previous value.
func Compare(current, previous float64) models.KPI {
	return models.KPI{
		Current:  models.Num(current),
		Previous: models.Num(previous),
		Change:   models.Num(PercentChange(current, previous)),
	}
}

// ComparePoints builds a KPI for metrics that are already percentages; the change is the
// raw point difference.
func ComparePoints(current, previous float64) models.KPI {
	diff := current - previous
	if math.IsNaN(diff) {
		// ambos infinitos
		diff = 0
	}
	return models.KPI{
		Current:  models.Num(current),
		Previous: models.Num(previous),
		Change:   models.Num(diff),
	}
}

// Windows are the current and previous comparison periods.
type Windows struct {
	Current  models.DateRange
	Previous models.DateRange
}

// PeriodWindows derives the comparison windows. A bounded range is compared with the
// window of identical duration ending 1ms before its start. Otherwise the most recent
// creation month is compared with the calendar month before it, whether or not that
// month holds any record. ok is false when there is nothing to anchor the months on.
func PeriodWindows(leads []models.Lead, r models.DateRange) (w Windows, ok bool) {
	if r.Bounded() {
		start, end := *r.Start, *r.End
		prevEnd := start.Add(-time.Millisecond)
		prevStart := prevEnd.Add(-end.Sub(start))
		return Windows{
			Current:  r,
			Previous: models.DateRange{Start: &prevStart, End: &prevEnd},
		}, true
	}
	var latest time.Time
	for _, l := range leads {
		if l.CreatedAt.After(latest) {
			latest = l.CreatedAt
		}
	}
	if latest.IsZero() {
		return Windows{}, false
	}
	curStart := time.Date(latest.Year(), latest.Month(), 1, 0, 0, 0, 0, latest.Location())
	curEnd := curStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	prevStart := curStart.AddDate(0, -1, 0)
	prevEnd := curStart.Add(-time.Nanosecond)
	return Windows{
		Current:  models.DateRange{Start: &curStart, End: &curEnd},
		Previous: models.DateRange{Start: &prevStart, End: &prevEnd},
	}, true
}

// monthKey is the YYYY-MM bucket of a timestamp.
func monthKey(t time.Time) string { return t.Format("2006-01") }
