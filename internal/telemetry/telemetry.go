// Package telemetry holds the Prometheus collectors shared by ingestion,
// the metrics service and the HTTP layer.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	IngestRuns     *prometheus.CounterVec
	RowsLoaded     *prometheus.GaugeVec
	SkippedRows    *prometheus.GaugeVec
	ComputeSeconds *prometheus.HistogramVec
	HTTPRequests   *prometheus.CounterVec
	ExportRuns     *prometheus.CounterVec
}

// New registers every collector on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IngestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_ingest_runs_total",
			Help: "Source refreshes by result.",
		}, []string{"result"}),
		RowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dashboard_rows_loaded",
			Help: "Rows held in the current snapshot per source.",
		}, []string{"source"}),
		SkippedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dashboard_rows_skipped",
			Help: "Rows dropped by the last refresh per source.",
		}, []string{"source"}),
		ComputeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_compute_seconds",
			Help:    "Time spent computing a view.",
			Buckets: prometheus.DefBuckets,
		}, []string{"view"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		ExportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_export_runs_total",
			Help: "Dashboard pushes to the sink by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.IngestRuns, m.RowsLoaded, m.SkippedRows, m.ComputeSeconds, m.HTTPRequests, m.ExportRuns)
	return m
}

// Noop returns collectors bound to a private registry.
func Noop() *Metrics { return New(prometheus.NewRegistry()) }

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
