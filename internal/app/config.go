package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything an App instance needs to run one build. Fields
// tagged with env can be set through the environment; flags override env.
type Config struct {
	// SitePath is a site .hcl file or a directory of them.
	SitePath string

	// OutputDir receives the bundle.
	OutputDir string `env:"MUWANX_OUTPUT"`

	// BasePath overrides the site files' base_path when non-empty.
	BasePath string `env:"MUWANX_BASE_PATH"`

	LogFormat string `env:"MUWANX_LOG_FORMAT"`
	LogLevel  string `env:"MUWANX_LOG_LEVEL"`

	// ServePort > 0 starts the preview server on that port after a
	// successful build.
	ServePort int `env:"MUWANX_SERVE_PORT"`
}

// ConfigFromEnv returns a Config pre-populated from the environment, with
// defaults applied for anything unset.
func ConfigFromEnv() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "dist"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// NewConfig validates a fully populated Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SitePath == "" {
		return nil, errors.New("SitePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
