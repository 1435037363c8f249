package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dash/internal/models"
)

func metaSale(id, campaign, rep, created, closed string, value float64) models.Lead {
	l := won(id, created, closed, value)
	l.Source = "Meta Ads"
	l.CampaignName = campaign
	l.AssignedRep = rep
	return l
}

func campaignRow(name, start string, spent float64, leads, form int) models.Campaign {
	return models.Campaign{
		Name:        name,
		PeriodStart: day(start),
		State:       "ativa",
		AmountSpent: spent,
		Leads:       leads,
		FormLeads:   form,
		Impressions: 1000,
		LinkClicks:  50,
	}
}

func TestROISentinels(t *testing.T) {
	assert.True(t, math.IsInf(ROI(100, 0), 1))
	assert.Equal(t, 0.0, ROI(0, 0))
	assert.Equal(t, 50.0, ROI(150, 100))
	assert.Equal(t, -100.0, ROI(0, 100))
}

func TestAnalyzeCampaignsAttribution(t *testing.T) {
	rows := []models.Campaign{
		campaignRow("Camp A", "2024-01-01", 120, 6, 4),
		campaignRow("Camp A", "2024-01-02", 80, 3, 2),
		campaignRow("Camp B", "2024-01-01", 100, 5, 0),
	}
	sales := []models.Lead{
		metaSale("1", "Camp A", "Bruno", "2024-01-01", "2024-01-05", 600),
		metaSale("2", "Camp A", "Ana", "2024-01-01", "", 600),
		metaSale("3", "Sem Planilha", "Ana", "2024-01-01", "2024-01-03", 300),
	}
	organic := won("4", "2024-01-01", "2024-01-02", 1000)
	organic.Source = "Indicação"
	organic.CampaignName = "Camp B"
	sales = append(sales, organic)

	a := AnalyzeCampaigns(CampaignInput{
		Campaigns:       rows,
		AllCampaigns:    rows,
		ClosedCohort:    sales,
		AllLeads:        sales,
		GlobalAvgTicket: 500,
	}, DefaultParams())

	// 3 ventas Meta Ads, incluida la que no tiene campaña en la planilha
	assert.Equal(t, 1500.0, a.WonValue)
	assert.InDelta(t, 100.0, a.CAC, 1e-9)
	assert.InDelta(t, 30.0, a.LTVCACRatio, 1e-9)

	require.Len(t, a.DetailedCampaigns, 2)
	best := a.DetailedCampaigns[0]
	assert.Equal(t, "Camp A", best.Name)
	assert.Equal(t, 200.0, best.Investment)
	assert.Equal(t, 15, best.Leads)
	assert.InDelta(t, 200.0/15, best.CPL, 1e-9)
	assert.Equal(t, 2, best.Sales)
	assert.Equal(t, models.Num(500), best.ROI)
	assert.InDelta(t, 4.0, best.AvgTimeToSale, 1e-9)
	assert.Equal(t, "Ana", best.TopResponsible)
	assert.True(t, best.Active)

	worst := a.DetailedCampaigns[1]
	assert.Equal(t, "Camp B", worst.Name)
	assert.Equal(t, 0, worst.Sales)
	assert.Equal(t, models.Num(-100), worst.ROI)

	require.NotNil(t, a.BestCampaign)
	assert.Equal(t, "Camp A", a.BestCampaign.Name)
	assert.Len(t, a.RoiBubbleData, 2)
	assert.Equal(t, "Camp A", a.TopCampaignsByInvestment[0].Name)
	assert.Equal(t, 2, a.Summary.TotalCampaigns)
}

func TestRankByROIPutsUnboundedFirst(t *testing.T) {
	rows := []models.CampaignPerformance{
		{Name: "neg", ROI: -20},
		{Name: "pos", ROI: 300},
		{Name: "free", ROI: models.Num(math.Inf(1))},
		{Name: "zero", ROI: 0},
	}
	rankByROI(rows)
	names := []string{rows[0].Name, rows[1].Name, rows[2].Name, rows[3].Name}
	assert.Equal(t, []string{"free", "pos", "zero", "neg"}, names)
}

func TestCampaignKpis(t *testing.T) {
	rows := []models.Campaign{
		campaignRow("A", "2024-01-01", 100, 10, 0),
		campaignRow("A", "2024-01-02", 100, 10, 0),
		campaignRow("B", "2024-01-01", 50, 5, 0),
	}
	rows[2].State = "pausada"
	crm := models.CRMKpis{WonLeads: 5, WonValue: 500}

	k := CampaignKpis(rows, &crm)
	assert.Equal(t, 2, k.TotalCampaigns)
	assert.Equal(t, 1, k.ActiveCampaigns)
	assert.Equal(t, 250.0, k.TotalSpent)
	assert.InDelta(t, 10.0, k.AvgCPL, 1e-9)
	assert.InDelta(t, 5.0, k.AvgCTR, 1e-9)
	assert.InDelta(t, 50.0, k.CAC, 1e-9)
	assert.InDelta(t, 100.0, k.ROI, 1e-9)

	assert.Equal(t, models.CampaignKpis{}, CampaignKpis(nil, &crm))
}
