package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dash/internal/models"
)

func TestAnalyzeVelocity(t *testing.T) {
	cohort := []models.Lead{
		won("1", "2024-01-01", "2024-01-11", 1000), // jueves
		won("2", "2024-01-01", "", 500),
		lead("3", models.StageNegotiation, "2024-01-01"),
	}
	reps := &models.ResponsibleAnalysis{Detailed: []models.ResponsibleData{
		{Name: "Lia", AvgTimeToClose: 12},
		{Name: "Rui", AvgTimeToClose: 0},
		{Name: "Ana", AvgTimeToClose: 8},
	}}

	v := AnalyzeVelocity(cohort, reps, DefaultParams())
	assert.InDelta(t, 10.0, v.AvgTotalCycleTime, 1e-9)

	require.Len(t, v.Stages, 5)
	assert.InDelta(t, 4.0, v.Stages[0].Days, 1e-9)
	require.NotNil(t, v.Bottleneck)
	assert.Equal(t, models.StageProspecting, v.Bottleneck.Stage)

	require.Len(t, v.SalesByWeekday, 7)
	assert.Equal(t, time.Sunday, v.SalesByWeekday[0].Weekday)
	assert.Equal(t, 1, v.SalesByWeekday[time.Thursday].Count)
	assert.Equal(t, "Qui", v.SalesByWeekday[time.Thursday].Label)

	require.Len(t, v.ByResponsible, 2)
	assert.Equal(t, "Ana", v.ByResponsible[0].Name)
}

func TestAnalyzeVelocityWithoutClosedSales(t *testing.T) {
	v := AnalyzeVelocity([]models.Lead{won("1", "2024-01-01", "", 10)}, nil, DefaultParams())
	assert.Zero(t, v.AvgTotalCycleTime)
	assert.Nil(t, v.Bottleneck)
	assert.Empty(t, v.ByResponsible)
}
