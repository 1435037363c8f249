package analytics

import (
	"sort"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// RepScore is the 0-5 composite rating of a representative:
//
//	+2 conversion > 15%, else +1 conversion > 10%
//	+1 average ticket above the global average ticket
//	+1 average time to close positive and below the global average cycle
//	+1 three or more sales
func RepScore(r models.ResponsibleData, globalTicket, globalCycle float64) int {
	score := 0
	switch {
	case r.ConversionRate > 15:
		score += 2
	case r.ConversionRate > 10:
		score++
	}
	if r.AvgTicket > globalTicket {
		score++
	}
	if r.AvgTimeToClose > 0 && r.AvgTimeToClose < globalCycle {
		score++
	}
	if r.Sales >= 3 {
		score++
	}
	return min(score, 5)
}

// AnalyzeResponsibles rates every assigned representative over the full lead history.
// Unassigned leads (empty or N/A) are ignored.
func AnalyzeResponsibles(all []models.Lead, p Params) *models.ResponsibleAnalysis {
	p = p.withDefaults()
	globalTicket := avgTicket(all)
	globalCycle := avgCycleDays(all)

	byRep := map[string][]models.Lead{}
	for _, l := range all {
		if isSentinel(l.AssignedRep) {
			continue
		}
		byRep[l.AssignedRep] = append(byRep[l.AssignedRep], l)
	}

	detailed := make([]models.ResponsibleData, 0, len(byRep))
	for name, leads := range byRep {
		r := models.ResponsibleData{Name: name, TotalLeads: len(leads)}
		for _, l := range leads {
			if l.Status == models.StageWon {
				r.Sales++
				r.TotalValue += l.Value
			}
		}
		r.ConversionRate = pct(float64(r.Sales), float64(r.TotalLeads))
		r.AvgTicket = safeDiv(r.TotalValue, float64(r.Sales))
		r.AvgTimeToClose = avgCycleDays(leads)
		r.Score = RepScore(r, globalTicket, globalCycle)
		detailed = append(detailed, r)
	}
	sort.Slice(detailed, func(i, j int) bool {
		if detailed[i].TotalValue != detailed[j].TotalValue {
			return detailed[i].TotalValue > detailed[j].TotalValue
		}
		return detailed[i].Name < detailed[j].Name
	})

	ranking := detailed
	if len(ranking) > p.TopResponsibles {
		ranking = ranking[:p.TopResponsibles]
	}
	chart := models.PerformanceChart{
		Labels: make([]string, 0, len(detailed)),
		Sales:  make([]int, 0, len(detailed)),
		Values: make([]float64, 0, len(detailed)),
	}
	for _, r := range detailed {
		chart.Labels = append(chart.Labels, r.Name)
		chart.Sales = append(chart.Sales, r.Sales)
		chart.Values = append(chart.Values, r.TotalValue)
	}
	return &models.ResponsibleAnalysis{
		Ranking:          append([]models.ResponsibleData(nil), ranking...),
		Detailed:         detailed,
		PerformanceChart: chart,
	}
}
