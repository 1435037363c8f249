package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/AngelCh415/admira-dash/internal/analytics"
	"github.com/AngelCh415/admira-dash/internal/config"
	"github.com/AngelCh415/admira-dash/internal/httpx"
	"github.com/AngelCh415/admira-dash/internal/ingest"
	"github.com/AngelCh415/admira-dash/internal/jobs"
	"github.com/AngelCh415/admira-dash/internal/logger"
	"github.com/AngelCh415/admira-dash/internal/metrics"
	"github.com/AngelCh415/admira-dash/internal/sink"
	"github.com/AngelCh415/admira-dash/internal/store"
	"github.com/AngelCh415/admira-dash/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tel := telemetry.New(reg)

	cl := ingest.NewHTTPClient(cfg.HTTP.Timeout())
	st := store.NewMemoryStore()
	loader := ingest.NewLoader(cl, st, log, *cfg, tel)
	engine := analytics.NewEngine(cfg.Heuristics.Params())
	svc := metrics.NewService(st, engine, tel)
	exp := sink.NewExporter(cl, cfg.Sink, log, tel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// primera carga; si falla, /readyz responde 503 hasta la próxima
	go func() {
		if _, err := loader.Run(ctx); err != nil {
			log.Warn("initial load failed", zap.Error(err))
		}
	}()

	sched := jobs.NewScheduler(log)
	if cfg.Refresh.Enabled {
		refresh := func(ctx context.Context) error {
			_, err := loader.Run(ctx)
			return err
		}
		if err := jobs.RegisterRefresh(sched, cfg.Refresh.Cron, 2*cfg.HTTP.Timeout()*time.Duration(cfg.HTTP.Retries+1), refresh); err != nil {
			return err
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr: ":" + cfg.App.Port,
		Handler: httpx.NewRouter(httpx.Deps{
			Log:      log,
			Loader:   loader,
			Service:  svc,
			Exporter: exp,
			Ready:    st.Ready,
			Tel:      tel,
			Gatherer: reg,
			Config:   *cfg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	<-sched.Stop().Done()
	return srv.Shutdown(shutdownCtx)
}
