// Package analytics derives the dashboard metrics from lead and campaign records.
// Every function here is pure: inputs are never mutated and no state survives a call.
package analytics

import (
	"time"

	"github.com/AngelCh415/admira-dash/internal/models"
)

type Engine struct {
	params Params
	now    func() time.Time
}

type Option func(*Engine)

// WithClock fixes the reference time used for "today" and days-in-pipeline.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func NewEngine(p Params, opts ...Option) *Engine {
	e := &Engine{params: p.withDefaults(), now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Params() Params { return e.params }

// CreatedCohort keeps the leads created inside r.
func CreatedCohort(leads []models.Lead, r models.DateRange) []models.Lead {
	return filterLeads(leads, func(l models.Lead) bool { return r.Contains(l.CreatedAt) })
}

// ClosedCohort keeps the won leads whose closing date falls inside r.
func ClosedCohort(leads []models.Lead, r models.DateRange) []models.Lead {
	return closedIn(leads, r)
}

// CampaignsInRange keeps the campaign rows whose reporting period starts inside r.
func CampaignsInRange(rows []models.Campaign, r models.DateRange) []models.Campaign {
	return campaignsIn(rows, r)
}

// ComputeMetrics assembles the full dashboard. currentLeads is the creation-date cohort
// of the active range and allLeads the unfiltered history; the campaign slices follow
// the same split. It returns nil, the not-ready signal, when no lead data exists at all.
func (e *Engine) ComputeMetrics(currentLeads, allLeads []models.Lead, currentCampaigns, allCampaigns []models.Campaign, r models.DateRange) *models.Dashboard {
	if len(currentLeads) == 0 && len(allLeads) == 0 {
		return nil
	}
	p := e.params
	now := e.now()
	windows, hasWindows := PeriodWindows(allLeads, r)

	funnel := ComputeFunnel(currentLeads, p.StageOrder)
	crm := CRMKpis(currentLeads)
	risk := RiskCounts(currentLeads)

	d := &models.Dashboard{
		GeneratedAt: now,
		Range:       r,
		CRM:         crm,
		Funnel:      funnel,
		StageKpis:   StageKpis(funnel),
		Prospecting: ProspectingAnalysis(currentLeads, risk),
		FollowUp:    FollowUpAnalysis(currentLeads, risk),
		Risk:        risk,
		Breakdown:   Breakdowns(currentLeads),
	}
	e.leadKpis(d, currentLeads, allLeads, windows, hasWindows, now)

	reps := AnalyzeResponsibles(allLeads, p)
	d.ByResponsible = reps

	d.TimeFunnel = AnalyzeVelocity(currentLeads, reps, p)

	d.Campaigns = AnalyzeCampaigns(CampaignInput{
		Campaigns:       currentCampaigns,
		AllCampaigns:    allCampaigns,
		ClosedCohort:    ClosedCohort(allLeads, r),
		AllLeads:        allLeads,
		Windows:         windows,
		HasWindows:      hasWindows,
		GlobalAvgTicket: avgTicket(allLeads),
		CRM:             &crm,
	}, p)

	d.Forecast = Forecast(currentLeads, d.TimeFunnel.AvgTotalCycleTime, now, p)

	d.Alert = SelectAlert(risk, funnel.Conversions, p)
	return d
}

func (e *Engine) leadKpis(d *models.Dashboard, cohort, all []models.Lead, w Windows, hasWindows bool, now time.Time) {
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	for _, l := range cohort {
		d.TotalLeads.Count++
		d.TotalLeads.Value += l.Value
		if !l.CreatedAt.Before(today) && l.CreatedAt.Before(today.AddDate(0, 0, 1)) {
			d.NewLeadsToday.Count++
			d.NewLeadsToday.Value += l.Value
		}
		if l.Status.Active() {
			d.ActiveLeads.Count++
			d.ActiveLeads.Value += l.Value
		}
		if l.Status == models.StageLost {
			d.LostLeads.Value += l.Value
		}
	}
	if len(d.Funnel.Conversions) > 0 {
		d.TotalLeads.ConversionToNext = d.Funnel.Conversions[0].Rate
	}
	d.LostLeads.TopReasons = TopLossReasons(cohort, e.params.TopLossReasons)

	var cur, prev periodFigures
	if hasWindows {
		cur, prev = figuresIn(all, w.Current), figuresIn(all, w.Previous)
	}
	d.Comparative = comparativeFrom(cur, prev)
	d.ClosedSales = models.ClosedSales{
		Count:     Compare(float64(cur.won), float64(prev.won)),
		Value:     Compare(cur.wonValue, prev.wonValue),
		AvgTicket: Compare(safeDiv(cur.wonValue, float64(cur.won)), safeDiv(prev.wonValue, float64(prev.won))),
	}
	d.LostLeads.Count = Compare(float64(cur.lost), float64(prev.lost))
	d.GlobalConversion = models.GlobalConversion{
		Rate:       ComparePoints(cur.globalConversion(), prev.globalConversion()),
		Sales:      cur.won,
		TotalLeads: cur.leads,
	}
}
