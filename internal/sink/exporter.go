// Package sink pushes computed dashboards to an external HTTP receiver.
package sink

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/AngelCh415/admira-dash/internal/config"
	"github.com/AngelCh415/admira-dash/internal/models"
	"github.com/AngelCh415/admira-dash/internal/telemetry"
)

var (
	ErrNotConfigured = errors.New("sink: url or secret not configured")
	ErrSinkStatus    = errors.New("sink: receiver returned non-2xx")
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Exporter struct {
	c      Doer
	url    string
	secret string
	log    *zap.Logger
	tel    *telemetry.Metrics
}

func NewExporter(c Doer, cfg config.SinkConfig, log *zap.Logger, tel *telemetry.Metrics) *Exporter {
	return &Exporter{c: c, url: cfg.URL, secret: cfg.Secret, log: log, tel: tel}
}

func (e *Exporter) Configured() bool { return e.url != "" && e.secret != "" }

// Sign is hex(HMAC-SHA256(secret, body)).
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Push posts d as JSON with its signature in X-Signature and returns the bytes sent.
func (e *Exporter) Push(ctx context.Context, d *models.Dashboard) (int, error) {
	n, err := e.push(ctx, d)
	e.tel.ExportRuns.WithLabelValues(telemetry.Result(err)).Inc()
	if err != nil {
		e.log.Warn("export failed", zap.Error(err))
		return 0, err
	}
	e.log.Info("export complete", zap.Int("bytes", n))
	return n, nil
}

func (e *Exporter) push(ctx context.Context, d *models.Dashboard) (int, error) {
	if !e.Configured() {
		return 0, ErrNotConfigured
	}
	b, err := json.Marshal(d)
	if err != nil {
		return 0, fmt.Errorf("encode dashboard: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(e.secret, b))
	resp, err := e.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: %d", ErrSinkStatus, resp.StatusCode)
	}
	return len(b), nil
}
