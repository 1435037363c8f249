package analytics

import (
	"math"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// StageWeight is the share of the total sales cycle attributed to one stage.
type StageWeight struct {
	Stage  models.Stage
	Weight float64
}

// Params holds the business heuristics the engine applies. None of them is measured
// from data; they are assumptions the operator may override through configuration.
type Params struct {
	StageOrder          []models.Stage
	StageWeights        []StageWeight
	LTVMultiplier       float64
	BottleneckThreshold float64
	ForecastBand        float64
	NegotiationFactor   float64
	NegotiationCap      float64
	FollowUpFactor      float64
	FollowUpCap         float64
	MetaAdsSource       string
	TopResponsibles     int
	TopCampaigns        int
	TopLossReasons      int
}

// DefaultStageOrder is the funnel sequence. Lost is an exit, not a stage.
var DefaultStageOrder = []models.Stage{
	models.StageLeads,
	models.StageProspecting,
	models.StageTriage,
	models.StageProposal,
	models.StageFollowUp,
	models.StageNegotiation,
	models.StageWon,
}

func DefaultStageWeights() []StageWeight {
	return []StageWeight{
		{Stage: models.StageProspecting, Weight: 0.40},
		{Stage: models.StageTriage, Weight: 0.10},
		{Stage: models.StageProposal, Weight: 0.15},
		{Stage: models.StageFollowUp, Weight: 0.25},
		{Stage: models.StageNegotiation, Weight: 0.10},
	}
}

func DefaultParams() Params {
	return Params{
		StageOrder:          append([]models.Stage(nil), DefaultStageOrder...),
		StageWeights:        DefaultStageWeights(),
		LTVMultiplier:       6,
		BottleneckThreshold: 20,
		ForecastBand:        0.2,
		NegotiationFactor:   100,
		NegotiationCap:      95,
		FollowUpFactor:      80,
		FollowUpCap:         85,
		MetaAdsSource:       "Meta Ads",
		TopResponsibles:     3,
		TopCampaigns:        5,
		TopLossReasons:      3,
	}
}

// WeightsBalanced reports whether the stage weights sum to 1 within tolerance.
func (p Params) WeightsBalanced() bool {
	sum := 0.0
	for _, w := range p.StageWeights {
		sum += w.Weight
	}
	return math.Abs(sum-1) <= 0.001
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if len(p.StageOrder) == 0 {
		p.StageOrder = d.StageOrder
	}
	if len(p.StageWeights) == 0 {
		p.StageWeights = d.StageWeights
	}
	if p.MetaAdsSource == "" {
		p.MetaAdsSource = d.MetaAdsSource
	}
	if p.TopResponsibles <= 0 {
		p.TopResponsibles = d.TopResponsibles
	}
	if p.TopCampaigns <= 0 {
		p.TopCampaigns = d.TopCampaigns
	}
	if p.TopLossReasons <= 0 {
		p.TopLossReasons = d.TopLossReasons
	}
	return p
}
