package analytics

import "github.com/AngelCh415/admira-dash/internal/models"

var stageLabels = map[models.Stage]string{
	models.StageLeads:       "Leads",
	models.StageProspecting: "Prospecção",
	models.StageTriage:      "Triagem",
	models.StageProposal:    "Proposta",
	models.StageFollowUp:    "Follow Up",
	models.StageNegotiation: "Negociação",
	models.StageWon:         "Ganho",
	models.StageLost:        "Perdido",
}

// StageLabel is the display name of a stage.
func StageLabel(s models.Stage) string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return s.String()
}

// ComputeFunnel counts stage occupancy over the given order. A lead at position i
// counts toward the cumulative total of every stage 0..i; leads whose status is not in
// the order (lost, unknown) count toward none. Value is the exact-stage value sum.
func ComputeFunnel(leads []models.Lead, order []models.Stage) models.Funnel {
	if len(order) == 0 {
		order = DefaultStageOrder
	}
	idx := make(map[models.Stage]int, len(order))
	for i, s := range order {
		idx[s] = i
	}

	cum := make([]int, len(order))
	exact := make([]int, len(order))
	value := make([]float64, len(order))
	for _, l := range leads {
		i, ok := idx[l.Status]
		if !ok {
			continue
		}
		for j := 0; j <= i; j++ {
			cum[j]++
		}
		exact[i]++
		value[i] += l.Value
	}

	f := models.Funnel{
		Stages:      make([]models.FunnelStage, 0, len(order)),
		Conversions: []models.FunnelConversion{},
	}
	for i, s := range order {
		f.Stages = append(f.Stages, models.FunnelStage{
			Stage:           s,
			Name:            StageLabel(s),
			CumulativeCount: cum[i],
			Count:           exact[i],
			Value:           value[i],
		})
	}
	if len(leads) == 0 {
		return f
	}
	for i := 0; i+1 < len(order); i++ {
		f.Conversions = append(f.Conversions, models.FunnelConversion{
			From:      order[i],
			To:        order[i+1],
			FromCount: cum[i],
			ToCount:   cum[i+1],
			Rate:      pct(float64(cum[i+1]), float64(cum[i])),
		})
	}
	f.Bottleneck = WeakestConversion(f.Conversions)
	return f
}

// WeakestConversion returns the lowest-rate adjacent pair, skipping pairs with an empty
// origin stage. Ties keep the earliest pair.
func WeakestConversion(convs []models.FunnelConversion) *models.FunnelConversion {
	var weakest *models.FunnelConversion
	for i := range convs {
		c := convs[i]
		if c.FromCount == 0 {
			continue
		}
		if weakest == nil || c.Rate < weakest.Rate {
			weakest = &c
		}
	}
	return weakest
}

// conversionFrom is the rate out of stage s, 0 when s is the last stage or absent.
func conversionFrom(convs []models.FunnelConversion, s models.Stage) float64 {
	for _, c := range convs {
		if c.From == s {
			return c.Rate
		}
	}
	return 0
}
