package analytics

import (
	"sort"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// CRMKpis summarizes a lead set. Any status other than won or lost counts as active
// pipeline, including statuses the stage vocabulary does not know.
func CRMKpis(leads []models.Lead) models.CRMKpis {
	k := models.CRMKpis{TotalLeads: len(leads)}
	if len(leads) == 0 {
		return k
	}
	for _, l := range leads {
		switch l.Status {
		case models.StageWon:
			k.WonLeads++
			k.WonValue += l.Value
		case models.StageLost:
			k.LostLeads++
			k.LostValue += l.Value
		default:
			k.ActiveLeads++
			k.TotalPipeline += l.Value
		}
		if isSentinel(l.Prospecting) || isNotApproached(l.Prospecting) {
			k.WaitingAction++
		}
	}
	closed := float64(k.WonLeads + k.LostLeads)
	k.ConversionRate = pct(float64(k.WonLeads), closed)
	k.LossRate = pct(float64(k.LostLeads), closed)
	k.WonAverageTicket = safeDiv(k.WonValue, float64(k.WonLeads))
	return k
}

// CampaignKpis aggregates campaign rows. A campaign name counts as active when any of
// its rows is active. CAC and ROI are blended against the CRM totals when given.
func CampaignKpis(rows []models.Campaign, crm *models.CRMKpis) models.CampaignKpis {
	var k models.CampaignKpis
	if len(rows) == 0 {
		return k
	}
	active := map[string]bool{}
	clicks := 0
	for _, c := range rows {
		k.TotalSpent += c.AmountSpent
		k.TotalLeads += c.TotalLeads()
		k.TotalReach += c.Reach
		k.TotalImpressions += c.Impressions
		clicks += c.LinkClicks
		active[c.Name] = active[c.Name] || c.Active()
	}
	k.TotalCampaigns = len(active)
	for _, a := range active {
		if a {
			k.ActiveCampaigns++
		}
	}
	k.AvgCPL = safeDiv(k.TotalSpent, float64(k.TotalLeads))
	k.AvgCTR = pct(float64(clicks), float64(k.TotalImpressions))
	k.AvgCPC = safeDiv(k.TotalSpent, float64(clicks))
	if crm != nil {
		k.CAC = safeDiv(k.TotalSpent, float64(crm.WonLeads))
		if k.TotalSpent > 0 {
			k.ROI = (crm.WonValue - k.TotalSpent) / k.TotalSpent * 100
		}
	}
	return k
}

type periodFigures struct {
	leads, won, lost int
	wonValue         float64
	lostValue        float64
	pipeline         float64
}

func (p periodFigures) closedConversion() float64 {
	return pct(float64(p.won), float64(p.won+p.lost))
}

func (p periodFigures) globalConversion() float64 {
	return pct(float64(p.won), float64(p.leads))
}

// figuresIn collects the creation-cohort figures of one window.
func figuresIn(leads []models.Lead, r models.DateRange) periodFigures {
	var f periodFigures
	for _, l := range leads {
		if !r.Contains(l.CreatedAt) {
			continue
		}
		f.leads++
		switch l.Status {
		case models.StageWon:
			f.won++
			f.wonValue += l.Value
		case models.StageLost:
			f.lost++
			f.lostValue += l.Value
		default:
			f.pipeline += l.Value
		}
	}
	return f
}

// ComparativeKpis compares lead intake, closed-lead conversion (points) and open
// pipeline between the current and previous windows.
func ComparativeKpis(leads []models.Lead, r models.DateRange) models.ComparativeKpis {
	w, ok := PeriodWindows(leads, r)
	if !ok {
		return models.ComparativeKpis{}
	}
	return comparativeFrom(figuresIn(leads, w.Current), figuresIn(leads, w.Previous))
}

func comparativeFrom(cur, prev periodFigures) models.ComparativeKpis {
	return models.ComparativeKpis{
		Leads:          Compare(float64(cur.leads), float64(prev.leads)),
		ConversionRate: ComparePoints(cur.closedConversion(), prev.closedConversion()),
		Pipeline:       Compare(cur.pipeline, prev.pipeline),
	}
}

// StageKpis reports exact occupancy, value and onward conversion for every active
// stage of the order.
func StageKpis(f models.Funnel) []models.StageKPI {
	out := make([]models.StageKPI, 0, len(f.Stages))
	for _, st := range f.Stages {
		if st.Stage == models.StageLeads || !st.Stage.Active() {
			continue
		}
		out = append(out, models.StageKPI{
			Stage:      st.Stage,
			Count:      st.Count,
			Value:      st.Value,
			Conversion: conversionFrom(f.Conversions, st.Stage),
		})
	}
	return out
}

// TopLossReasons ranks loss reasons of lost leads, ignoring the N/A sentinel.
func TopLossReasons(leads []models.Lead, n int) []models.ReasonCount {
	var reasons []string
	for _, l := range leads {
		if l.Status == models.StageLost && !isSentinel(l.LossReason) {
			reasons = append(reasons, l.LossReason)
		}
	}
	tags := countTags(reasons)
	if n > 0 && len(tags) > n {
		tags = tags[:n]
	}
	out := make([]models.ReasonCount, 0, len(tags))
	for _, t := range tags {
		out = append(out, models.ReasonCount{Reason: t.Name, Count: t.Count})
	}
	return out
}

// Breakdowns groups the cohort for the secondary charts.
func Breakdowns(leads []models.Lead) models.Breakdown {
	statuses := make([]string, 0, len(leads))
	business := make([]string, 0, len(leads))
	months := map[string]int{}
	for _, l := range leads {
		statuses = append(statuses, l.Status.String())
		bt := l.BusinessType
		if bt == "" {
			bt = models.NotAvailable
		}
		business = append(business, bt)
		months[monthKey(l.CreatedAt)]++
	}
	monthly := make([]models.MonthlyCount, 0, len(months))
	for m, n := range months {
		monthly = append(monthly, models.MonthlyCount{Month: m, Count: n})
	}
	sort.Slice(monthly, func(i, j int) bool { return monthly[i].Month < monthly[j].Month })
	return models.Breakdown{
		StatusDistribution: countTags(statuses),
		LossReasons:        TopLossReasons(leads, 0),
		ByBusinessType:     countTags(business),
		MonthlyLeads:       monthly,
	}
}

// ProspectingAnalysis distributes prospecting-stage leads by attempt tag.
func ProspectingAnalysis(leads []models.Lead, risk models.RiskCounts) models.ProspectingAnalysis {
	var tags []string
	for _, l := range leads {
		if l.Status == models.StageProspecting {
			tags = append(tags, tagOrNA(l.Prospecting))
		}
	}
	return models.ProspectingAnalysis{
		Distribution:  countTags(tags),
		NotApproached: risk.NotApproached,
		LastAttempt:   risk.LastAttemptProspecting,
	}
}

// FollowUpAnalysis distributes follow-up-stage leads by follow-up tag.
func FollowUpAnalysis(leads []models.Lead, risk models.RiskCounts) models.FollowUpAnalysis {
	var tags []string
	for _, l := range leads {
		if l.Status == models.StageFollowUp {
			tags = append(tags, tagOrNA(l.FollowUp))
		}
	}
	return models.FollowUpAnalysis{
		Distribution: countTags(tags),
		LastFollowUp: risk.LastFollowUp,
	}
}

func tagOrNA(s string) string {
	if s == "" {
		return models.NotAvailable
	}
	return s
}
