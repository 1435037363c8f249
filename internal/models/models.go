package models

import "time"

// Stage is a pipeline position. The zero value is StageUnknown.
type Stage int

const (
	StageUnknown Stage = iota
	StageLeads
	StageProspecting
	StageTriage
	StageProposal
	StageFollowUp
	StageNegotiation
	StageWon
	StageLost
)

var stageTags = map[Stage]string{
	StageLeads:       "leads",
	StageProspecting: "em prospecção",
	StageTriage:      "reunião de triagem",
	StageProposal:    "reunião de proposta",
	StageFollowUp:    "em follow up",
	StageNegotiation: "em negociação",
	StageWon:         "ganho",
	StageLost:        "perdido",
}

func (s Stage) String() string {
	if t, ok := stageTags[s]; ok {
		return t
	}
	return "desconhecido"
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether the lead has left the pipeline.
func (s Stage) Terminal() bool { return s == StageWon || s == StageLost }

// Active is any known, non-terminal stage.
func (s Stage) Active() bool { return s != StageUnknown && !s.Terminal() }

// StageFromTag maps an already-normalized status tag to its Stage.
func StageFromTag(tag string) Stage {
	for s, t := range stageTags {
		if t == tag {
			return s
		}
	}
	return StageUnknown
}

const NotAvailable = "N/A"

type Lead struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Status       Stage      `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	AssignedRep  string     `json:"assigned_rep"`
	Value        float64    `json:"value"`
	Prospecting  string     `json:"prospecting"`
	FollowUp     string     `json:"follow_up"`
	LossReason   string     `json:"loss_reason"`
	Source       string     `json:"source"`
	CampaignName string     `json:"campaign_name"`
	BusinessType string     `json:"business_type"`
	ServiceType  string     `json:"service_type"`
	Temperature  string     `json:"temperature,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
}

// CycleDays is the creation-to-close duration in days; ok is false when ClosedAt is unset.
func (l Lead) CycleDays() (float64, bool) {
	if l.ClosedAt == nil {
		return 0, false
	}
	return l.ClosedAt.Sub(l.CreatedAt).Hours() / 24, true
}

// Campaign is one reporting row of the ads export; a campaign may span many rows.
type Campaign struct {
	Name        string    `json:"name"`
	PeriodStart time.Time `json:"period_start"`
	Type        string    `json:"type"`
	Niche       string    `json:"niche"`
	State       string    `json:"state"`
	AmountSpent float64   `json:"amount_spent"`
	Budget      float64   `json:"budget"`
	Reach       int       `json:"reach"`
	Impressions int       `json:"impressions"`
	LinkClicks  int       `json:"link_clicks"`
	CTR         float64   `json:"ctr"`
	Leads       int       `json:"leads"`
	FormLeads   int       `json:"form_leads"`
}

func (c Campaign) TotalLeads() int { return c.Leads + c.FormLeads }

func (c Campaign) Active() bool { return c.State == "ativa" }

// DateRange is inclusive on both ends; a nil bound is open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

func (r DateRange) Bounded() bool { return r.Start != nil && r.End != nil }

func (r DateRange) Open() bool { return r.Start == nil && r.End == nil }

func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Dataset is one consistent load of both sources.
type Dataset struct {
	Leads     []Lead     `json:"leads"`
	Campaigns []Campaign `json:"campaigns"`
	LoadedAt  time.Time  `json:"loaded_at"`
}
