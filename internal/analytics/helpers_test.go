package analytics

import (
	"time"

	"github.com/AngelCh415/admira-dash/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func endOfDay(s string) *time.Time {
	t := day(s).Add(24*time.Hour - time.Millisecond)
	return &t
}

func rangeOf(start, end string) models.DateRange {
	return models.DateRange{Start: dayPtr(start), End: endOfDay(end)}
}

func lead(id string, status models.Stage, created string) models.Lead {
	c := day(created)
	return models.Lead{
		ID:           id,
		Name:         "Lead " + id,
		Status:       status,
		CreatedAt:    c,
		UpdatedAt:    c,
		AssignedRep:  models.NotAvailable,
		Prospecting:  "Tentativa 1",
		LossReason:   models.NotAvailable,
		BusinessType: "Estúdio",
		ServiceType:  "Tráfego",
	}
}

func won(id, created, closed string, value float64) models.Lead {
	l := lead(id, models.StageWon, created)
	l.Value = value
	if closed != "" {
		l.ClosedAt = dayPtr(closed)
	}
	return l
}

func fixedClock(s string) func() time.Time {
	t := day(s)
	return func() time.Time { return t }
}
