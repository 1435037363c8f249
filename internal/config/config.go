package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/AngelCh415/admira-dash/internal/analytics"
	"github.com/AngelCh415/admira-dash/internal/models"
)

type Config struct {
	App        AppConfig
	Sources    SourcesConfig
	HTTP       HTTPConfig
	Logging    LoggingConfig
	Sink       SinkConfig
	Refresh    RefreshConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Heuristics HeuristicsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        string
}

// SourcesConfig points at the two published CSV exports.
type SourcesConfig struct {
	CrmURL      string `mapstructure:"crm_url"`
	CampaignURL string `mapstructure:"campaign_url"`
}

type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	Retries        int
	BackoffMillis  int `mapstructure:"backoff_millis"`
}

type LoggingConfig struct {
	Level  string
	Format string
}

type SinkConfig struct {
	URL    string
	Secret string
}

type RefreshConfig struct {
	Enabled bool
	Cron    string
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// HeuristicsConfig exposes the engine's business assumptions.
type HeuristicsConfig struct {
	LTVMultiplier       float64            `mapstructure:"ltv_multiplier"`
	BottleneckThreshold float64            `mapstructure:"bottleneck_threshold"`
	ForecastBand        float64            `mapstructure:"forecast_band"`
	NegotiationFactor   float64            `mapstructure:"negotiation_factor"`
	NegotiationCap      float64            `mapstructure:"negotiation_cap"`
	FollowUpFactor      float64            `mapstructure:"followup_factor"`
	FollowUpCap         float64            `mapstructure:"followup_cap"`
	MetaAdsSource       string             `mapstructure:"meta_ads_source"`
	TopResponsibles     int                `mapstructure:"top_reps"`
	TopCampaigns        int                `mapstructure:"top_campaigns"`
	StageWeights        map[string]float64 `mapstructure:"stage_weights"`
}

func (h HTTPConfig) Timeout() time.Duration { return time.Duration(h.TimeoutSeconds) * time.Second }

func (h HTTPConfig) Backoff() time.Duration { return time.Duration(h.BackoffMillis) * time.Millisecond }

var weightKeys = []struct {
	key   string
	stage models.Stage
}{
	{"prospecting", models.StageProspecting},
	{"triage", models.StageTriage},
	{"proposal", models.StageProposal},
	{"follow_up", models.StageFollowUp},
	{"negotiation", models.StageNegotiation},
}

// Params maps the configured heuristics onto the engine parameters.
func (h HeuristicsConfig) Params() analytics.Params {
	p := analytics.DefaultParams()
	setPos(&p.LTVMultiplier, h.LTVMultiplier)
	setPos(&p.BottleneckThreshold, h.BottleneckThreshold)
	setPos(&p.ForecastBand, h.ForecastBand)
	setPos(&p.NegotiationFactor, h.NegotiationFactor)
	setPos(&p.NegotiationCap, h.NegotiationCap)
	setPos(&p.FollowUpFactor, h.FollowUpFactor)
	setPos(&p.FollowUpCap, h.FollowUpCap)
	if h.MetaAdsSource != "" {
		p.MetaAdsSource = h.MetaAdsSource
	}
	if h.TopResponsibles > 0 {
		p.TopResponsibles = h.TopResponsibles
	}
	if h.TopCampaigns > 0 {
		p.TopCampaigns = h.TopCampaigns
	}
	if len(h.StageWeights) > 0 {
		p.StageWeights = p.StageWeights[:0]
		for _, wk := range weightKeys {
			if w, ok := h.StageWeights[wk.key]; ok {
				p.StageWeights = append(p.StageWeights, analytics.StageWeight{Stage: wk.stage, Weight: w})
			}
		}
	}
	return p
}

func setPos(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "admira-dash")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.retries", 3)
	v.SetDefault("http.backoff_millis", 100)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.cron", "@every 15m")

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	d := analytics.DefaultParams()
	v.SetDefault("heuristics.ltv_multiplier", d.LTVMultiplier)
	v.SetDefault("heuristics.bottleneck_threshold", d.BottleneckThreshold)
	v.SetDefault("heuristics.forecast_band", d.ForecastBand)
	v.SetDefault("heuristics.negotiation_factor", d.NegotiationFactor)
	v.SetDefault("heuristics.negotiation_cap", d.NegotiationCap)
	v.SetDefault("heuristics.followup_factor", d.FollowUpFactor)
	v.SetDefault("heuristics.followup_cap", d.FollowUpCap)
	v.SetDefault("heuristics.meta_ads_source", d.MetaAdsSource)
	v.SetDefault("heuristics.top_reps", d.TopResponsibles)
	v.SetDefault("heuristics.top_campaigns", d.TopCampaigns)
	weights := map[string]float64{}
	for i, wk := range weightKeys {
		weights[wk.key] = d.StageWeights[i].Weight
	}
	v.SetDefault("heuristics.stage_weights", weights)
}

// Load reads config.json (optional), then .env (optional) and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// nombres cortos heredados del despliegue anterior
	for key, env := range map[string]string{
		"app.port":             "PORT",
		"sources.crm_url":      "CRM_URL",
		"sources.campaign_url": "CAMPAIGN_URL",
		"http.timeout_seconds": "HTTP_TIMEOUT_SECONDS",
		"logging.level":        "LOG_LEVEL",
		"sink.url":             "SINK_URL",
		"sink.secret":          "SINK_SECRET",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Port == "" || c.App.Port == "0" {
		return errors.New("config: app.port must be set")
	}
	if c.HTTP.Retries < 0 {
		return errors.New("config: http.retries must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return errors.New("config: http.timeout_seconds must be positive")
	}
	if !c.Heuristics.Params().WeightsBalanced() {
		return errors.New("config: heuristics.stage_weights must sum to 1")
	}
	return nil
}
