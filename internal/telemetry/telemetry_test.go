package telemetry

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IngestRuns.WithLabelValues(Result(nil)).Inc()
	m.IngestRuns.WithLabelValues(Result(errors.New("x"))).Inc()
	m.IngestRuns.WithLabelValues("ok").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.IngestRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestRuns.WithLabelValues("error")))

	n, err := testutil.GatherAndCount(reg, "dashboard_ingest_runs_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
