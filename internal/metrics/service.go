package metrics

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AngelCh415/admira-dash/internal/analytics"
	"github.com/AngelCh415/admira-dash/internal/models"
	"github.com/AngelCh415/admira-dash/internal/store"
	"github.com/AngelCh415/admira-dash/internal/telemetry"
	"github.com/AngelCh415/admira-dash/internal/utils"
)

var (
	ErrInvalidRange = errors.New("metrics: invalid date range")
	ErrNoData       = errors.New("metrics: no data loaded")
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// RangeQuery is the start/end pair accepted by every view.
type RangeQuery struct {
	Start string `validate:"omitempty,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

// ParseRange reads start/end (YYYY-MM-DD). End is inclusive to its last millisecond.
func ParseRange(v url.Values, loc *time.Location) (models.DateRange, error) {
	q := RangeQuery{Start: strings.TrimSpace(v.Get("start")), End: strings.TrimSpace(v.Get("end"))}
	if err := validate.Struct(q); err != nil {
		return models.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	var r models.DateRange
	if q.Start != "" {
		t, _ := time.ParseInLocation(dateLayout, q.Start, loc)
		r.Start = &t
	}
	if q.End != "" {
		t, _ := time.ParseInLocation(dateLayout, q.End, loc)
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
		r.End = &t
	}
	if r.Bounded() && r.End.Before(*r.Start) {
		return models.DateRange{}, fmt.Errorf("%w: end before start", ErrInvalidRange)
	}
	return r, nil
}

type Service struct {
	st     *store.MemoryStore
	engine *analytics.Engine
	tel    *telemetry.Metrics
	loc    *time.Location
}

func NewService(st *store.MemoryStore, engine *analytics.Engine, tel *telemetry.Metrics) *Service {
	return &Service{st: st, engine: engine, tel: tel, loc: time.UTC}
}

// compute slices the snapshot to r and runs the engine.
func (s *Service) compute(view string, r models.DateRange) (*models.Dashboard, error) {
	ds, ok := s.st.Snapshot()
	if !ok {
		return nil, ErrNoData
	}
	start := time.Now()
	d := s.engine.ComputeMetrics(
		analytics.CreatedCohort(ds.Leads, r), ds.Leads,
		analytics.CampaignsInRange(ds.Campaigns, r), ds.Campaigns,
		r,
	)
	s.tel.ComputeSeconds.WithLabelValues(view).Observe(time.Since(start).Seconds())
	if d == nil {
		return nil, ErrNoData
	}
	return d, nil
}

func (s *Service) view(name string, v url.Values) (*models.Dashboard, error) {
	r, err := ParseRange(v, s.loc)
	if err != nil {
		return nil, err
	}
	return s.compute(name, r)
}

// Dashboard is the full snapshot for the requested range.
func (s *Service) Dashboard(v url.Values) (*models.Dashboard, error) {
	return s.view("dashboard", v)
}

// DashboardFor is Dashboard with an already parsed range.
func (s *Service) DashboardFor(r models.DateRange) (*models.Dashboard, error) {
	return s.compute("dashboard", r)
}

func (s *Service) Funnel(v url.Values) (models.Funnel, error) {
	d, err := s.view("funnel", v)
	if err != nil {
		return models.Funnel{}, err
	}
	return d.Funnel, nil
}

func (s *Service) CRM(v url.Values) (models.CRMKpis, error) {
	d, err := s.view("crm", v)
	if err != nil {
		return models.CRMKpis{}, err
	}
	return d.CRM, nil
}

func (s *Service) CampaignKpis(v url.Values) (models.CampaignKpis, error) {
	d, err := s.view("campaign_kpis", v)
	if err != nil {
		return models.CampaignKpis{}, err
	}
	return d.Campaigns.Summary, nil
}

// CompareView bundles every period-over-period figure.
type CompareView struct {
	Comparative      models.ComparativeKpis  `json:"comparative"`
	ClosedSales      models.ClosedSales      `json:"closed_sales"`
	LostLeads        models.KPI              `json:"lost_leads"`
	GlobalConversion models.GlobalConversion `json:"global_conversion"`
}

func (s *Service) Compare(v url.Values) (CompareView, error) {
	d, err := s.view("compare", v)
	if err != nil {
		return CompareView{}, err
	}
	return CompareView{
		Comparative:      d.Comparative,
		ClosedSales:      d.ClosedSales,
		LostLeads:        d.LostLeads.Count,
		GlobalConversion: d.GlobalConversion,
	}, nil
}

func (s *Service) Responsibles(v url.Values) (*models.ResponsibleAnalysis, error) {
	d, err := s.view("responsibles", v)
	if err != nil {
		return nil, err
	}
	return d.ByResponsible, nil
}

type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Campaigns pages the per-campaign detail rows in ROI ranking order.
// name takes a comma-separated list of campaign names.
func (s *Service) Campaigns(v url.Values) (Page[models.CampaignPerformance], error) {
	d, err := s.view("campaigns", v)
	if err != nil {
		return Page[models.CampaignPerformance]{}, err
	}
	names := csvSet(v.Get("name"))
	rows := make([]models.CampaignPerformance, 0, len(d.Campaigns.DetailedCampaigns))
	for _, c := range d.Campaigns.DetailedCampaigns {
		if len(names) > 0 {
			if _, ok := names[norm(c.Name)]; !ok {
				continue
			}
		}
		rows = append(rows, c)
	}

	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return Page[models.CampaignPerformance]{
		Items:  paginate(rows, limit, offset),
		Total:  len(rows),
		Limit:  limit,
		Offset: offset,
	}, nil
}

func norm(s string) string { return utils.Fold(s) }

func csvSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
