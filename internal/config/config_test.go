package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dash/internal/analytics"
	"github.com/AngelCh415/admira-dash/internal/models"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CRM_URL", "http://crm.local/export.csv")
	t.Setenv("HEURISTICS_LTV_MULTIPLIER", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "http://crm.local/export.csv", cfg.Sources.CrmURL)
	assert.Equal(t, 3, cfg.HTTP.Retries)
	assert.Equal(t, "@every 15m", cfg.Refresh.Cron)

	p := cfg.Heuristics.Params()
	assert.Equal(t, 4.0, p.LTVMultiplier)
	assert.Equal(t, 20.0, p.BottleneckThreshold)
	assert.Equal(t, analytics.DefaultStageWeights(), p.StageWeights)
}

func TestHeuristicsStageWeightsKeepStageOrder(t *testing.T) {
	h := HeuristicsConfig{StageWeights: map[string]float64{
		"negotiation": 0.5,
		"prospecting": 0.5,
	}}
	p := h.Params()
	require.Len(t, p.StageWeights, 2)
	assert.Equal(t, models.StageProspecting, p.StageWeights[0].Stage)
	assert.True(t, p.WeightsBalanced())
}

func TestValidateRejectsUnbalancedWeights(t *testing.T) {
	cfg := Config{
		App:        AppConfig{Port: "8080"},
		HTTP:       HTTPConfig{TimeoutSeconds: 5},
		Heuristics: HeuristicsConfig{StageWeights: map[string]float64{"prospecting": 0.3}},
	}
	assert.Error(t, cfg.Validate())

	cfg.Heuristics.StageWeights["triage"] = 0.7
	assert.NoError(t, cfg.Validate())
}
