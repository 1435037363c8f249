package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// bottleneckLeads: 100 leads reach prospecting, 10 reach triage (and beyond).
func bottleneckLeads() []models.Lead {
	var leads []models.Lead
	for i := 0; i < 90; i++ {
		leads = append(leads, lead(fmt.Sprint("p", i), models.StageProspecting, "2024-01-02"))
	}
	for i := 0; i < 10; i++ {
		leads = append(leads, won(fmt.Sprint("w", i), "2024-01-02", "2024-01-12", 100))
	}
	return leads
}

func TestRiskCountsOverlapButValueOnce(t *testing.T) {
	a := lead("a", models.StageProspecting, "2024-01-01")
	a.Prospecting = "Não abordado"
	a.Value = 100
	b := lead("b", models.StageTriage, "2024-01-01")
	b.Prospecting = "ÚLTIMA TENTATIVA"
	b.Value = 200
	c := lead("c", models.StageFollowUp, "2024-01-01")
	c.Prospecting = "nao abordado"
	c.FollowUp = "Última Tentativa"
	c.Value = 400
	closed := lead("d", models.StageLost, "2024-01-01")
	closed.Prospecting = "Não abordado"

	r := RiskCounts([]models.Lead{a, b, c, closed})
	assert.Equal(t, 2, r.NotApproached)
	assert.Equal(t, 1, r.LastAttemptProspecting)
	assert.Equal(t, 1, r.LastFollowUp)
	assert.Equal(t, 4, r.Total())
	assert.Equal(t, 700.0, r.ValueAtRisk)
}

func TestSelectAlertBottleneck(t *testing.T) {
	leads := bottleneckLeads()
	f := ComputeFunnel(leads, DefaultStageOrder)

	alert := SelectAlert(RiskCounts(leads), f.Conversions, DefaultParams())
	require.NotNil(t, alert)
	assert.Equal(t, models.AlertBottleneck, alert.Type)
	require.NotNil(t, alert.Conversion)
	assert.Equal(t, models.StageProspecting, alert.Conversion.From)
	assert.Equal(t, models.StageTriage, alert.Conversion.To)
	assert.InDelta(t, 10.0, alert.Conversion.Rate, 1e-9)
	assert.Equal(t, Suggestion(models.StageProspecting, models.StageTriage), alert.Suggestion)
	assert.NotEmpty(t, alert.Suggestion)
}

func TestSelectAlertCriticalWins(t *testing.T) {
	leads := bottleneckLeads()
	leads[0].Prospecting = "Não abordado"
	leads[0].Value = 250
	f := ComputeFunnel(leads, DefaultStageOrder)

	alert := SelectAlert(RiskCounts(leads), f.Conversions, DefaultParams())
	require.NotNil(t, alert)
	assert.Equal(t, models.AlertCritical, alert.Type)
	assert.Equal(t, 250.0, alert.ValueAtRisk)
	assert.Contains(t, alert.Title, "1")
}

func TestSelectAlertNone(t *testing.T) {
	leads := []models.Lead{
		lead("1", models.StageProspecting, "2024-01-01"),
		won("2", "2024-01-01", "2024-01-02", 10),
	}
	f := ComputeFunnel(leads, DefaultStageOrder)
	assert.Nil(t, SelectAlert(RiskCounts(leads), f.Conversions, DefaultParams()))
}

func TestEverySuggestionCoversDefaultOrder(t *testing.T) {
	for i := 0; i+1 < len(DefaultStageOrder); i++ {
		assert.NotEmpty(t, Suggestion(DefaultStageOrder[i], DefaultStageOrder[i+1]))
	}
}
