package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/AngelCh415/admira-dash/internal/config"
)

func TestNewParsesLevel(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "debug", Format: "json"}, config.AppConfig{Name: "admira-dash"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewFallsBackToInfo(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "loud"}, config.AppConfig{Environment: "development"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
