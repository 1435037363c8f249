package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// Probability scores a single in-flight lead from its progress through the average
// cycle. ok is false for stages outside the forecast.
func (p Params) Probability(stage models.Stage, daysInPipeline, avgCycle float64) (prob float64, ok bool) {
	progress := safeDiv(daysInPipeline, avgCycle)
	switch stage {
	case models.StageNegotiation:
		return math.Min(progress*p.NegotiationFactor, p.NegotiationCap), true
	case models.StageFollowUp:
		return math.Min(progress*p.FollowUpFactor, p.FollowUpCap), true
	}
	return 0, false
}

// Forecast projects near-term sales from leads in negotiation or follow-up.
func Forecast(cohort []models.Lead, avgCycle float64, now time.Time, p Params) *models.ForecastAnalysis {
	p = p.withDefaults()
	f := &models.ForecastAnalysis{Leads: []models.ForecastLead{}}
	for _, l := range cohort {
		days := math.Max(now.Sub(l.CreatedAt).Hours()/24, 0)
		prob, ok := p.Probability(l.Status, days, avgCycle)
		if !ok {
			continue
		}
		f.Leads = append(f.Leads, models.ForecastLead{
			ID:             l.ID,
			Name:           l.Name,
			Stage:          l.Status,
			Value:          l.Value,
			DaysInPipeline: days,
			Probability:    prob,
			AssignedRep:    l.AssignedRep,
		})
		f.ExpectedValue += l.Value * prob / 100
		f.ExpectedSales += prob / 100
	}
	sort.SliceStable(f.Leads, func(i, j int) bool {
		a, b := f.Leads[i], f.Leads[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.ID < b.ID
	})
	f.SalesRange = p.band(f.ExpectedSales)
	f.ValueRange = p.band(f.ExpectedValue)
	return f
}

// band is the fixed +/- ForecastBand range, floored and ceiled.
func (p Params) band(expected float64) models.Band {
	return models.Band{
		Min: math.Floor(expected * (1 - p.ForecastBand)),
		Max: math.Ceil(expected * (1 + p.ForecastBand)),
	}
}
