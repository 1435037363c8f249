package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AngelCh415/admira-dash/internal/config"
	"github.com/AngelCh415/admira-dash/internal/ingest"
	"github.com/AngelCh415/admira-dash/internal/metrics"
	"github.com/AngelCh415/admira-dash/internal/models"
	"github.com/AngelCh415/admira-dash/internal/sink"
	"github.com/AngelCh415/admira-dash/internal/telemetry"
	"github.com/AngelCh415/admira-dash/internal/utils"
)

type Loader interface {
	Run(ctx context.Context) (ingest.Summary, error)
}

type Exporter interface {
	Push(ctx context.Context, d *models.Dashboard) (int, error)
}

type Deps struct {
	Log      *zap.Logger
	Loader   Loader
	Service  *metrics.Service
	Exporter Exporter
	Ready    func() bool
	Tel      *telemetry.Metrics
	Gatherer prometheus.Gatherer
	Config   config.Config
}

func NewRouter(d Deps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log, func(route string, status int) {
		d.Tel.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}))
	mux.Use(corsHandler(d.Config.CORS, d.Config.App.Environment, d.Log))
	if d.Config.RateLimit.Enabled && d.Config.RateLimit.RequestsPerMinute > 0 {
		mux.Use(rateLimit(d.Config.RateLimit.RequestsPerMinute, d.Log))
	}

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !d.Ready() {
			http.Error(w, "no data loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		sum, err := d.Loader.Run(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, sum)
	})

	mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
		dash, err := d.Service.Dashboard(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		n, err := d.Exporter.Push(r.Context(), dash)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"exported_bytes": n, "generated_at": dash.GeneratedAt.Format(time.RFC3339)})
	})

	mux.Get("/dashboard", serve(d.Service.Dashboard))
	mux.Get("/funnel", serve(d.Service.Funnel))
	mux.Get("/kpis/crm", serve(d.Service.CRM))
	mux.Get("/kpis/campaigns", serve(d.Service.CampaignKpis))
	mux.Get("/kpis/compare", serve(d.Service.Compare))
	mux.Get("/campaigns", serve(d.Service.Campaigns))
	mux.Get("/responsibles", serve(d.Service.Responsibles))

	return mux
}

// serve adapts a query-driven view to a handler.
func serve[T any](fn func(url.Values) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, v)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, metrics.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, metrics.ErrNoData), errors.Is(err, sink.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	// fallas de fuentes o del sink
	return http.StatusBadGateway
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

// corsHandler allows every origin in development when none is configured and denies
// cross-origin requests elsewhere.
func corsHandler(cfg config.CORSConfig, environment string, log *zap.Logger) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
	switch {
	case len(cfg.AllowedOrigins) > 0:
		opts.AllowedOrigins = cfg.AllowedOrigins
	case environment == "development" || environment == "local" || environment == "":
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return origin != "" }
	default:
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		log.Warn("CORS configured with no allowed origins", zap.String("environment", environment))
	}
	return cors.Handler(opts)
}

func rateLimit(perMinute int, log *zap.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("rate limit exceeded", zap.String("path", r.URL.Path), zap.String("rid", utils.RID(r.Context())))
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		}),
	)
}
