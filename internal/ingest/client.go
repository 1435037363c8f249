package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AngelCh415/admira-dash/internal/utils"
)

var (
	ErrEmptyURL     = errors.New("ingest: empty source url")
	ErrSourceStatus = errors.New("ingest: source returned non-2xx")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d body=%s", ErrSourceStatus, e.code, e.body)
}

func (e *statusError) Unwrap() error { return ErrSourceStatus }

// maxBody caps a single export download.
const maxBody = 32 << 20

func getBody(ctx context.Context, c HTTPClient, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &statusError{code: resp.StatusCode, body: string(b)}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// GetWithRetry downloads url, retrying transport errors and 5xx/429 answers.
// Other 4xx answers fail immediately.
func GetWithRetry(ctx context.Context, c HTTPClient, url string, b utils.Backoff) ([]byte, error) {
	var body []byte
	err := b.Do(ctx, func(int) error {
		var err error
		body, err = getBody(ctx, c, url)
		if err != nil && !retryable(err) {
			return utils.Permanent(err)
		}
		return err
	})
	return body, err
}

func retryable(err error) bool {
	if errors.Is(err, ErrEmptyURL) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}
