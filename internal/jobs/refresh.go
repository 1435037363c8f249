package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const RefreshJobName = "refresh-sources"

// Refresher reloads the data sources.
type Refresher func(ctx context.Context) error

// RegisterRefresh schedules refresh on expr. Each run gets its own timeout.
func RegisterRefresh(s *Scheduler, expr string, timeout time.Duration, refresh Refresher) error {
	return s.AddJob(RefreshJobName, expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := refresh(ctx); err != nil {
			s.logger.Warn("scheduled refresh failed", zap.Error(err))
		}
	})
}
