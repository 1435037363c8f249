package models

import (
	"math"
	"strconv"
	"time"
)

// Num is a float that survives JSON encoding when it holds an Infinity sentinel.
type Num float64

func (n Num) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(f):
		return []byte("0"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

func (n Num) IsInf() bool { return math.IsInf(float64(n), 1) }

// KPI pairs a metric with its previous-period value. For rate metrics Change is a point
// difference; for everything else it is a percentage delta.
type KPI struct {
	Current  Num `json:"current"`
	Previous Num `json:"previous"`
	Change   Num `json:"change"`
}

type FunnelStage struct {
	Stage           Stage   `json:"stage"`
	Name            string  `json:"name"`
	CumulativeCount int     `json:"cumulative_count"`
	Count           int     `json:"count"`
	Value           float64 `json:"value"`
}

type FunnelConversion struct {
	From      Stage   `json:"from"`
	To        Stage   `json:"to"`
	FromCount int     `json:"from_count"`
	ToCount   int     `json:"to_count"`
	Rate      float64 `json:"rate"`
}

type Funnel struct {
	Stages      []FunnelStage      `json:"stages"`
	Conversions []FunnelConversion `json:"conversions"`
	Bottleneck  *FunnelConversion  `json:"bottleneck,omitempty"`
}

type ComparativeKpis struct {
	Leads          KPI `json:"leads"`
	ConversionRate KPI `json:"conversion_rate"`
	Pipeline       KPI `json:"pipeline"`
}

type CRMKpis struct {
	TotalLeads       int     `json:"total_leads"`
	ActiveLeads      int     `json:"active_leads"`
	WonLeads         int     `json:"won_leads"`
	LostLeads        int     `json:"lost_leads"`
	WonValue         float64 `json:"won_value"`
	LostValue        float64 `json:"lost_value"`
	TotalPipeline    float64 `json:"total_pipeline"`
	ConversionRate   float64 `json:"conversion_rate"`
	LossRate         float64 `json:"loss_rate"`
	WonAverageTicket float64 `json:"won_average_ticket"`
	WaitingAction    int     `json:"waiting_action"`
}

type CampaignKpis struct {
	TotalSpent       float64 `json:"total_spent"`
	TotalLeads       int     `json:"total_leads"`
	AvgCPL           float64 `json:"avg_cpl"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	TotalCampaigns   int     `json:"total_campaigns"`
	TotalReach       int     `json:"total_reach"`
	TotalImpressions int     `json:"total_impressions"`
	AvgCTR           float64 `json:"avg_ctr"`
	AvgCPC           float64 `json:"avg_cpc"`
	CAC              float64 `json:"cac"`
	ROI              float64 `json:"roi"`
}

type CountValue struct {
	Count            int     `json:"count"`
	Value            float64 `json:"value"`
	ConversionToNext float64 `json:"conversion_to_next,omitempty"`
}

type StageKPI struct {
	Stage      Stage   `json:"stage"`
	Count      int     `json:"count"`
	Value      float64 `json:"value"`
	Conversion float64 `json:"conversion"`
}

type ClosedSales struct {
	Count     KPI `json:"count"`
	Value     KPI `json:"value"`
	AvgTicket KPI `json:"avg_ticket"`
}

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

type LostLeads struct {
	Count      KPI           `json:"count"`
	Value      float64       `json:"value"`
	TopReasons []ReasonCount `json:"top_reasons"`
}

type GlobalConversion struct {
	Rate       KPI `json:"rate"`
	Sales      int `json:"sales"`
	TotalLeads int `json:"total_leads"`
}

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ProspectingAnalysis struct {
	Distribution  []TagCount `json:"distribution"`
	NotApproached int        `json:"not_approached"`
	LastAttempt   int        `json:"last_attempt"`
}

type FollowUpAnalysis struct {
	Distribution []TagCount `json:"distribution"`
	LastFollowUp int        `json:"last_follow_up"`
}

type CampaignPerformance struct {
	Name           string  `json:"name"`
	Investment     float64 `json:"investment"`
	Leads          int     `json:"leads"`
	CPL            float64 `json:"cpl"`
	Sales          int     `json:"sales"`
	WonValue       float64 `json:"won_value"`
	ROI            Num     `json:"roi"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgTimeToSale  float64 `json:"avg_time_to_sale"`
	TopResponsible string  `json:"top_responsible,omitempty"`
	Active         bool    `json:"active"`
}

type RoiPoint struct {
	Name           string  `json:"name"`
	CPL            float64 `json:"cpl"`
	ConversionRate float64 `json:"conversion_rate"`
	ROI            Num     `json:"roi"`
	Investment     float64 `json:"investment"`
}

type CampaignAnalysis struct {
	Investment               KPI                   `json:"investment"`
	Leads                    KPI                   `json:"leads"`
	CPL                      KPI                   `json:"cpl"`
	Sales                    KPI                   `json:"sales"`
	ROI                      KPI                   `json:"roi"`
	WonValue                 float64               `json:"won_value"`
	CAC                      float64               `json:"cac"`
	LTVCACRatio              float64               `json:"ltv_cac_ratio"`
	AvgTicket                float64               `json:"avg_ticket"`
	BestCampaign             *CampaignPerformance  `json:"best_campaign,omitempty"`
	TopCampaignsByInvestment []CampaignPerformance `json:"top_campaigns_by_investment"`
	RoiBubbleData            []RoiPoint            `json:"roi_bubble_data"`
	DetailedCampaigns        []CampaignPerformance `json:"detailed_campaigns"`
	Summary                  CampaignKpis          `json:"summary"`
}

type ResponsibleData struct {
	Name           string  `json:"name"`
	TotalLeads     int     `json:"total_leads"`
	Sales          int     `json:"sales"`
	TotalValue     float64 `json:"total_value"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgTicket      float64 `json:"avg_ticket"`
	AvgTimeToClose float64 `json:"avg_time_to_close"`
	Score          int     `json:"score"`
}

type PerformanceChart struct {
	Labels []string  `json:"labels"`
	Sales  []int     `json:"sales"`
	Values []float64 `json:"values"`
}

type ResponsibleAnalysis struct {
	Ranking          []ResponsibleData `json:"ranking"`
	Detailed         []ResponsibleData `json:"detailed"`
	PerformanceChart PerformanceChart  `json:"performance_chart"`
}

type StageTime struct {
	Stage Stage   `json:"stage"`
	Days  float64 `json:"days"`
}

type WeekdayCount struct {
	Weekday time.Weekday `json:"weekday"`
	Label   string       `json:"label"`
	Count   int          `json:"count"`
}

type RepVelocity struct {
	Name    string  `json:"name"`
	AvgDays float64 `json:"avg_days"`
}

type TimeFunnelAnalysis struct {
	AvgTotalCycleTime float64        `json:"avg_total_cycle_time"`
	Stages            []StageTime    `json:"stages"`
	Bottleneck        *StageTime     `json:"bottleneck,omitempty"`
	SalesByWeekday    []WeekdayCount `json:"sales_by_weekday"`
	ByResponsible     []RepVelocity  `json:"by_responsible"`
}

type ForecastLead struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Stage          Stage   `json:"stage"`
	Value          float64 `json:"value"`
	DaysInPipeline float64 `json:"days_in_pipeline"`
	Probability    float64 `json:"probability"`
	AssignedRep    string  `json:"assigned_rep"`
}

// Band is a [Min, Max] projection around an expected figure.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type ForecastAnalysis struct {
	Leads         []ForecastLead `json:"leads"`
	ExpectedSales float64        `json:"expected_sales"`
	ExpectedValue float64        `json:"expected_value"`
	SalesRange    Band           `json:"sales_range"`
	ValueRange    Band           `json:"value_range"`
}

type AlertType string

const (
	AlertCritical   AlertType = "critical"
	AlertBottleneck AlertType = "bottleneck"
)

type RiskCounts struct {
	NotApproached          int     `json:"not_approached"`
	LastAttemptProspecting int     `json:"last_attempt_prospecting"`
	LastFollowUp           int     `json:"last_follow_up"`
	ValueAtRisk            float64 `json:"value_at_risk"`
}

func (r RiskCounts) Total() int {
	return r.NotApproached + r.LastAttemptProspecting + r.LastFollowUp
}

type Alert struct {
	Type        AlertType         `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Suggestion  string            `json:"suggestion,omitempty"`
	ValueAtRisk float64           `json:"value_at_risk,omitempty"`
	Conversion  *FunnelConversion `json:"conversion,omitempty"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Breakdown struct {
	StatusDistribution []TagCount     `json:"status_distribution"`
	LossReasons        []ReasonCount  `json:"loss_reasons"`
	ByBusinessType     []TagCount     `json:"by_business_type"`
	MonthlyLeads       []MonthlyCount `json:"monthly_leads"`
}

// Dashboard is the full snapshot handed to the view layer.
type Dashboard struct {
	GeneratedAt      time.Time            `json:"generated_at"`
	Range            DateRange            `json:"range"`
	TotalLeads       CountValue           `json:"total_leads"`
	NewLeadsToday    CountValue           `json:"new_leads_today"`
	ActiveLeads      CountValue           `json:"active_leads"`
	StageKpis        []StageKPI           `json:"stage_kpis"`
	ClosedSales      ClosedSales          `json:"closed_sales"`
	LostLeads        LostLeads            `json:"lost_leads"`
	GlobalConversion GlobalConversion     `json:"global_conversion"`
	Comparative      ComparativeKpis      `json:"comparative"`
	CRM              CRMKpis              `json:"crm"`
	Funnel           Funnel               `json:"funnel"`
	Prospecting      ProspectingAnalysis  `json:"prospecting"`
	FollowUp         FollowUpAnalysis     `json:"follow_up"`
	Risk             RiskCounts           `json:"risk"`
	Campaigns        *CampaignAnalysis    `json:"campaigns,omitempty"`
	ByResponsible    *ResponsibleAnalysis `json:"by_responsible,omitempty"`
	TimeFunnel       *TimeFunnelAnalysis  `json:"time_funnel,omitempty"`
	Forecast         *ForecastAnalysis    `json:"forecast,omitempty"`
	Alert            *Alert               `json:"alert,omitempty"`
	Breakdown        Breakdown            `json:"breakdown"`
}
