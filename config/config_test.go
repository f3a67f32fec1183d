package config

import (
	"testing"
	"time"

	"linkup_server/services"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, services.DefaultScoringConfig(), *cfg.Scoring)
	assert.Nil(t, cfg.Gemini)
}

func TestApplyDefaultsKeepsOverrides(t *testing.T) {
	cfg := Config{
		Port:         "9000",
		PollInterval: time.Minute,
		Scoring:      &services.ScoringConfig{MinScoreThreshold: 60},
		Gemini:       &GeminiConfig{APIKey: "key"},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 60.0, cfg.Scoring.MinScoreThreshold)
	assert.Equal(t, 90.0, cfg.Scoring.HighDemandThreshold)
	assert.Equal(t, 10*time.Second, cfg.Gemini.Timeout)
}
