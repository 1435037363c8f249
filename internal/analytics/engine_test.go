package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dash/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultParams(), WithClock(fixedClock("2024-03-01")))
}

func TestComputeMetricsEmptyIsNotReady(t *testing.T) {
	assert.Nil(t, newTestEngine().ComputeMetrics(nil, nil, nil, nil, models.DateRange{}))
	assert.Nil(t, newTestEngine().ComputeMetrics([]models.Lead{}, []models.Lead{}, []models.Campaign{}, []models.Campaign{}, models.DateRange{}))
}

func TestComputeMetricsSingleWonLead(t *testing.T) {
	leads := []models.Lead{won("1", "2024-01-01", "2024-01-11", 1000)}

	d := newTestEngine().ComputeMetrics(leads, leads, nil, nil, models.DateRange{})
	require.NotNil(t, d)
	require.NotNil(t, d.TimeFunnel)
	assert.Equal(t, 10.0, d.TimeFunnel.AvgTotalCycleTime)
	assert.Equal(t, models.Num(1), d.ClosedSales.Count.Current)
	assert.Equal(t, models.Num(1000), d.ClosedSales.AvgTicket.Current)
	assert.Equal(t, 1, d.TotalLeads.Count)
	assert.Equal(t, 1, d.CRM.WonLeads)
	assert.Nil(t, d.Alert)
}

func TestComputeMetricsIsIdempotent(t *testing.T) {
	leads := append(bottleneckLeads(), repLeads()...)
	rows := []models.Campaign{campaignRow("Camp A", "2024-01-01", 100, 10, 0)}
	e := newTestEngine()

	d1 := e.ComputeMetrics(leads, leads, rows, rows, models.DateRange{})
	d2 := e.ComputeMetrics(leads, leads, rows, rows, models.DateRange{})
	assert.Equal(t, d1, d2)
}

func TestComputeMetricsDoesNotMutateInput(t *testing.T) {
	leads := append(bottleneckLeads(), repLeads()...)
	before := append([]models.Lead(nil), leads...)
	rows := []models.Campaign{
		campaignRow("B", "2024-01-01", 10, 1, 0),
		campaignRow("A", "2024-01-01", 100, 10, 0),
	}
	rowsBefore := append([]models.Campaign(nil), rows...)

	newTestEngine().ComputeMetrics(leads, leads, rows, rows, models.DateRange{})
	assert.Equal(t, before, leads)
	assert.Equal(t, rowsBefore, rows)
}

func TestComputeMetricsAttributionFollowsClosingDate(t *testing.T) {
	sale := metaSale("1", "Camp A", "Ana", "2024-01-10", "2024-02-15", 900)
	all := []models.Lead{sale}
	campaigns := []models.Campaign{campaignRow("Camp A", "2024-01-01", 300, 10, 0)}
	e := newTestEngine()

	jan := rangeOf("2024-01-01", "2024-01-31")
	dj := e.ComputeMetrics(CreatedCohort(all, jan), all, CampaignsInRange(campaigns, jan), campaigns, jan)
	require.NotNil(t, dj)
	require.Len(t, dj.Campaigns.DetailedCampaigns, 1)
	assert.Equal(t, 0, dj.Campaigns.DetailedCampaigns[0].Sales)
	assert.Equal(t, models.Num(0), dj.Campaigns.Sales.Current)
	assert.Equal(t, models.Num(300), dj.Campaigns.Investment.Current)

	feb := rangeOf("2024-02-01", "2024-02-29")
	df := e.ComputeMetrics(CreatedCohort(all, feb), all, CampaignsInRange(campaigns, feb), campaigns, feb)
	require.NotNil(t, df)
	assert.Equal(t, models.Num(1), df.Campaigns.Sales.Current)
	require.Len(t, df.Campaigns.DetailedCampaigns, 1)
	row := df.Campaigns.DetailedCampaigns[0]
	assert.Equal(t, 1, row.Sales)
	assert.Zero(t, row.Investment)
	assert.True(t, row.ROI.IsInf())
	assert.Zero(t, df.TotalLeads.Count)
}

func TestComputeMetricsAlertPriority(t *testing.T) {
	leads := bottleneckLeads()
	e := newTestEngine()

	d := e.ComputeMetrics(leads, leads, nil, nil, models.DateRange{})
	require.NotNil(t, d.Alert)
	assert.Equal(t, models.AlertBottleneck, d.Alert.Type)
	assert.Equal(t, models.StageProspecting, d.Alert.Conversion.From)
	assert.Equal(t, models.StageTriage, d.Alert.Conversion.To)

	risky := append([]models.Lead(nil), leads...)
	risky[3].Prospecting = "Não abordado"
	d = e.ComputeMetrics(risky, risky, nil, nil, models.DateRange{})
	require.NotNil(t, d.Alert)
	assert.Equal(t, models.AlertCritical, d.Alert.Type)
}

func TestComputeMetricsBoundedComparison(t *testing.T) {
	all := []models.Lead{
		won("1", "2024-01-20", "2024-01-25", 100),
		won("2", "2024-02-05", "2024-02-10", 300),
		won("3", "2024-02-06", "2024-02-12", 300),
	}
	feb := rangeOf("2024-02-01", "2024-02-29")
	d := newTestEngine().ComputeMetrics(CreatedCohort(all, feb), all, nil, nil, feb)
	require.NotNil(t, d)

	assert.Equal(t, models.Num(2), d.ClosedSales.Count.Current)
	assert.Equal(t, models.Num(1), d.ClosedSales.Count.Previous)
	assert.Equal(t, models.Num(100), d.ClosedSales.Count.Change)
	assert.Equal(t, models.Num(200), d.ClosedSales.AvgTicket.Change)
	assert.Equal(t, 2, d.TotalLeads.Count)
}

func TestComputeMetricsNewLeadsToday(t *testing.T) {
	leads := []models.Lead{
		lead("1", models.StageLeads, "2024-03-01"),
		lead("2", models.StageLeads, "2024-02-29"),
	}
	leads[0].Value = 50
	d := newTestEngine().ComputeMetrics(leads, leads, nil, nil, models.DateRange{})
	assert.Equal(t, models.CountValue{Count: 1, Value: 50}, d.NewLeadsToday)
	assert.Equal(t, 2, d.ActiveLeads.Count)
}
