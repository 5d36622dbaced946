// Package config loads runtime settings for programs built on the SDK
// from the process environment (optionally seeded from a .env file). The
// API credential is only ever read from here; it never appears in source.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings a DDI bridge deployment needs.
type Config struct {
	APIKey             string `mapstructure:"ddi_api_key"`
	BaseURL            string `mapstructure:"ddi_base_url"`
	Region             string `mapstructure:"ddi_region"`
	HTTPTimeoutSeconds int64  `mapstructure:"http_timeout_seconds"`
	LogLevel           string `mapstructure:"log_level"`

	HTTPTimeout time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables, seeded from a local
// .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetDefault("ddi_api_key", "")
	v.SetDefault("ddi_base_url", "")
	v.SetDefault("ddi_region", "us")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("DDI_API_KEY is not set")
	}
	switch cfg.Region {
	case "us", "eu", "ca":
	default:
		return nil, fmt.Errorf("invalid DDI_REGION %q (want us, eu, or ca)", cfg.Region)
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	return &cfg, nil
}
