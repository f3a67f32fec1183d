package config

import (
	"time"

	"linkup_server/services"
)

// Config is the full runtime configuration, unmarshalled by viper from the
// config file and environment bindings.
type Config struct {
	Port         string                  `mapstructure:"port"`
	AWSRegion    string                  `mapstructure:"aws-region"`
	PollInterval time.Duration           `mapstructure:"poll-interval"`
	Scoring      *services.ScoringConfig `mapstructure:"scoring"`
	Gemini       *GeminiConfig           `mapstructure:"gemini"`
}

// GeminiConfig configures the icebreaker generator. Leaving the api key
// empty disables enrichment entirely.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api-key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields with working defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Minute
	}
	if c.Scoring == nil {
		def := services.DefaultScoringConfig()
		c.Scoring = &def
	} else {
		c.Scoring.ApplyDefaults()
	}
	if c.Gemini != nil && c.Gemini.Timeout <= 0 {
		c.Gemini.Timeout = 10 * time.Second
	}
}
