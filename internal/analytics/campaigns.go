package analytics

import (
	"math"
	"sort"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// ROI is the return in percent over investment. With no investment the return is
// unbounded (+Inf) when anything was won and 0 otherwise.
func ROI(wonValue, investment float64) float64 {
	if investment == 0 {
		if wonValue > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return (wonValue - investment) / investment * 100
}

// CampaignInput carries the two cohorts campaign attribution works on. Spend is
// filtered by the reporting-period start of each row, sales by their closing date.
type CampaignInput struct {
	Campaigns       []models.Campaign // rows inside the active range
	AllCampaigns    []models.Campaign
	ClosedCohort    []models.Lead // won leads closed inside the active range
	AllLeads        []models.Lead
	Windows         Windows
	HasWindows      bool
	GlobalAvgTicket float64
	CRM             *models.CRMKpis
}

// attributedTo reports whether a won lead is credited to the named campaign.
func (p Params) attributedTo(l models.Lead, campaign string) bool {
	return l.Source == p.MetaAdsSource && l.CampaignName == campaign
}

type spendTotals struct {
	investment float64
	leads      int
	sales      int
	wonValue   float64
}

func (p Params) totals(rows []models.Campaign, closed []models.Lead) spendTotals {
	var t spendTotals
	for _, c := range rows {
		t.investment += c.AmountSpent
		t.leads += c.TotalLeads()
	}
	for _, l := range closed {
		if l.Status == models.StageWon && l.Source == p.MetaAdsSource {
			t.sales++
			t.wonValue += l.Value
		}
	}
	return t
}

// AnalyzeCampaigns attributes won Meta Ads sales to campaigns by exact name and derives
// per-campaign and blended efficiency metrics.
func AnalyzeCampaigns(in CampaignInput, p Params) *models.CampaignAnalysis {
	p = p.withDefaults()
	cur := p.totals(in.Campaigns, in.ClosedCohort)

	a := &models.CampaignAnalysis{
		WonValue:  cur.wonValue,
		AvgTicket: in.GlobalAvgTicket,
		CAC:       safeDiv(cur.investment, float64(cur.sales)),
		Summary:   CampaignKpis(in.Campaigns, in.CRM),
	}
	if a.CAC > 0 {
		a.LTVCACRatio = in.GlobalAvgTicket * p.LTVMultiplier / a.CAC
	}

	// comparativos siempre sobre las ventanas del período
	var wc, wp spendTotals
	if in.HasWindows {
		wc = p.totals(campaignsIn(in.AllCampaigns, in.Windows.Current), closedIn(in.AllLeads, in.Windows.Current))
		wp = p.totals(campaignsIn(in.AllCampaigns, in.Windows.Previous), closedIn(in.AllLeads, in.Windows.Previous))
	}
	a.Investment = Compare(wc.investment, wp.investment)
	a.Leads = Compare(float64(wc.leads), float64(wp.leads))
	a.CPL = Compare(safeDiv(wc.investment, float64(wc.leads)), safeDiv(wp.investment, float64(wp.leads)))
	a.Sales = Compare(float64(wc.sales), float64(wp.sales))
	a.ROI = ComparePoints(ROI(wc.wonValue, wc.investment), ROI(wp.wonValue, wp.investment))

	a.DetailedCampaigns = p.campaignRows(in)
	rankByROI(a.DetailedCampaigns)
	if len(a.DetailedCampaigns) > 0 {
		best := a.DetailedCampaigns[0]
		a.BestCampaign = &best
	}

	byInv := append([]models.CampaignPerformance(nil), a.DetailedCampaigns...)
	sort.SliceStable(byInv, func(i, j int) bool {
		if byInv[i].Investment != byInv[j].Investment {
			return byInv[i].Investment > byInv[j].Investment
		}
		return byInv[i].Name < byInv[j].Name
	})
	if len(byInv) > p.TopCampaigns {
		byInv = byInv[:p.TopCampaigns]
	}
	a.TopCampaignsByInvestment = byInv

	a.RoiBubbleData = []models.RoiPoint{}
	for _, c := range a.DetailedCampaigns {
		if c.Investment <= 0 {
			continue
		}
		a.RoiBubbleData = append(a.RoiBubbleData, models.RoiPoint{
			Name:           c.Name,
			CPL:            c.CPL,
			ConversionRate: c.ConversionRate,
			ROI:            c.ROI,
			Investment:     c.Investment,
		})
	}
	return a
}

// campaignRows builds one row per campaign name with spend in range, plus names from
// the full dataset that only have attributed sales in range.
func (p Params) campaignRows(in CampaignInput) []models.CampaignPerformance {
	type acc struct {
		investment float64
		leads      int
		active     bool
	}
	rows := map[string]*acc{}
	var names []string
	for _, c := range in.Campaigns {
		r, ok := rows[c.Name]
		if !ok {
			r = &acc{}
			rows[c.Name] = r
			names = append(names, c.Name)
		}
		r.investment += c.AmountSpent
		r.leads += c.TotalLeads()
		r.active = r.active || c.Active()
	}
	known := map[string]bool{}
	for _, c := range in.AllCampaigns {
		known[c.Name] = true
	}
	for _, l := range in.ClosedCohort {
		if l.Source != p.MetaAdsSource || !known[l.CampaignName] {
			continue
		}
		if _, ok := rows[l.CampaignName]; !ok {
			rows[l.CampaignName] = &acc{}
			names = append(names, l.CampaignName)
		}
	}

	out := make([]models.CampaignPerformance, 0, len(names))
	for _, name := range names {
		r := rows[name]
		cp := models.CampaignPerformance{
			Name:       name,
			Investment: r.investment,
			Leads:      r.leads,
			CPL:        safeDiv(r.investment, float64(r.leads)),
			Active:     r.active,
		}
		var days []float64
		reps := map[string]int{}
		for _, l := range in.ClosedCohort {
			if l.Status != models.StageWon || !p.attributedTo(l, name) {
				continue
			}
			cp.Sales++
			cp.WonValue += l.Value
			if d, ok := l.CycleDays(); ok {
				days = append(days, d)
			}
			if !isSentinel(l.AssignedRep) {
				reps[l.AssignedRep]++
			}
		}
		cp.ROI = models.Num(ROI(cp.WonValue, cp.Investment))
		cp.ConversionRate = pct(float64(cp.Sales), float64(cp.Leads))
		cp.AvgTimeToSale = mean(days)
		cp.TopResponsible = topRep(reps)
		out = append(out, cp)
	}
	return out
}

// topRep picks the rep with most sales, breaking ties by name.
func topRep(counts map[string]int) string {
	best, n := "", 0
	for name, c := range counts {
		if c > n || (c == n && name < best) {
			best, n = name, c
		}
	}
	return best
}

// rankByROI orders unbounded returns first, then finite ROI descending, then name.
func rankByROI(rows []models.CampaignPerformance) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := float64(rows[i].ROI), float64(rows[j].ROI)
		if ri != rj {
			return ri > rj
		}
		return rows[i].Name < rows[j].Name
	})
}

func campaignsIn(rows []models.Campaign, r models.DateRange) []models.Campaign {
	out := make([]models.Campaign, 0, len(rows))
	for _, c := range rows {
		if r.Contains(c.PeriodStart) {
			out = append(out, c)
		}
	}
	return out
}

// closedIn is the closing-date cohort: won leads whose closedAt falls in r. With an
// open range every won lead qualifies, dated or not.
func closedIn(leads []models.Lead, r models.DateRange) []models.Lead {
	return filterLeads(leads, func(l models.Lead) bool {
		if l.Status != models.StageWon {
			return false
		}
		if r.Open() {
			return true
		}
		return l.ClosedAt != nil && r.Contains(*l.ClosedAt)
	})
}
