package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddJobRejectsDuplicatesAndBadExpr(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	require.NoError(t, s.AddJob("a", "@every 1h", func() {}))
	assert.Error(t, s.AddJob("a", "@every 1h", func() {}))
	assert.Error(t, s.AddJob("b", "not a cron", func() {}))
	assert.ElementsMatch(t, []string{"a"}, s.JobNames())

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Empty(t, s.JobNames())
}

func TestRefreshRunsOnSchedule(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	var runs int32
	err := RegisterRefresh(s, "@every 1s", time.Second, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("source down")
	})
	require.NoError(t, err)
	assert.Contains(t, s.JobNames(), RefreshJobName)

	s.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()
}
