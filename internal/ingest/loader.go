package ingest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/admira-dash/internal/config"
	"github.com/AngelCh415/admira-dash/internal/store"
	"github.com/AngelCh415/admira-dash/internal/telemetry"
	"github.com/AngelCh415/admira-dash/internal/utils"
)

// Summary describes one successful refresh.
type Summary struct {
	Leads            int       `json:"leads"`
	Campaigns        int       `json:"campaigns"`
	SkippedLeads     int       `json:"skipped_leads"`
	SkippedCampaigns int       `json:"skipped_campaigns"`
	LoadedAt         time.Time `json:"loaded_at"`
}

// Loader fetches both exports and swaps them into the store together.
type Loader struct {
	c       HTTPClient
	st      *store.MemoryStore
	log     *zap.Logger
	src     config.SourcesConfig
	backoff utils.Backoff
	tel     *telemetry.Metrics
	loc     *time.Location
	now     func() time.Time

	mu sync.Mutex // una recarga a la vez
}

func NewLoader(c HTTPClient, st *store.MemoryStore, log *zap.Logger, cfg config.Config, tel *telemetry.Metrics) *Loader {
	return &Loader{
		c:       c,
		st:      st,
		log:     log,
		src:     cfg.Sources,
		backoff: utils.NewBackoff(cfg.HTTP.Backoff(), cfg.HTTP.Retries),
		tel:     tel,
		loc:     time.UTC,
		now:     time.Now,
	}
}

// Run reloads both sources. When either download or parse fails the store keeps
// its previous snapshot.
func (l *Loader) Run(ctx context.Context) (Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	sum, err := l.run(ctx)
	l.tel.IngestRuns.WithLabelValues(telemetry.Result(err)).Inc()
	if err != nil {
		l.log.Error("ingest failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return Summary{}, err
	}
	l.log.Info("ingest complete",
		zap.Int("leads", sum.Leads),
		zap.Int("campaigns", sum.Campaigns),
		zap.Int("skipped_leads", sum.SkippedLeads),
		zap.Int("skipped_campaigns", sum.SkippedCampaigns),
		zap.Duration("took", time.Since(start)))
	return sum, nil
}

func (l *Loader) run(ctx context.Context) (Summary, error) {
	var crmBody, adsBody []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := GetWithRetry(gctx, l.c, l.src.CrmURL, l.backoff)
		if err != nil {
			return fmt.Errorf("crm source: %w", err)
		}
		crmBody = b
		return nil
	})
	g.Go(func() error {
		b, err := GetWithRetry(gctx, l.c, l.src.CampaignURL, l.backoff)
		if err != nil {
			return fmt.Errorf("campaign source: %w", err)
		}
		adsBody = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	leads, err := ParseLeads(bytes.NewReader(crmBody), l.loc)
	if err != nil {
		return Summary{}, fmt.Errorf("crm source: %w", err)
	}
	camps, err := ParseCampaigns(bytes.NewReader(adsBody), l.loc)
	if err != nil {
		return Summary{}, fmt.Errorf("campaign source: %w", err)
	}

	at := l.now()
	l.st.Replace(leads.Rows, camps.Rows, at)

	l.tel.RowsLoaded.WithLabelValues("crm").Set(float64(len(leads.Rows)))
	l.tel.RowsLoaded.WithLabelValues("campaigns").Set(float64(len(camps.Rows)))
	l.tel.SkippedRows.WithLabelValues("crm").Set(float64(leads.Skipped))
	l.tel.SkippedRows.WithLabelValues("campaigns").Set(float64(camps.Skipped))

	return Summary{
		Leads:            len(leads.Rows),
		Campaigns:        len(camps.Rows),
		SkippedLeads:     leads.Skipped,
		SkippedCampaigns: camps.Skipped,
		LoadedAt:         at,
	}, nil
}
