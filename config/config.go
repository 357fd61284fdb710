// Package config loads the application configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/quant/risk"
)

// App contains process-wide runtime settings.
type App struct {
	Name        string `yaml:"name" envconfig:"APP_NAME"`
	LogLevel    string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	MetricsAddr string `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`
}

// Scheduler contains the evaluation loop parameters.
type Scheduler struct {
	Interval     string `yaml:"interval"` // e.g. "5m", "30s"
	LookbackBars int    `yaml:"lookback_bars"`
}

// ParseInterval converts the interval string to a duration; empty means
// "use the default cadence".
func (s Scheduler) ParseInterval() (time.Duration, error) {
	if s.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Interval)
}

// Journal selects where decisions are recorded.
type Journal struct {
	Type string `yaml:"type"` // "none", "csv" or "sqlite"
	Path string `yaml:"path"`
}

// Feed selects the price data source.
type Feed struct {
	Type      string            `yaml:"type"`  // "csv" or "stream"
	Files     map[string]string `yaml:"files"` // instrument -> bars file, for csv
	StreamURL string            `yaml:"stream_url" envconfig:"STREAM_URL"`
}

// Config collects every configuration leaf.
type Config struct {
	App       App         `yaml:"app"`
	Risk      risk.Config `yaml:"risk"`
	Scheduler Scheduler   `yaml:"scheduler"`
	Journal   Journal     `yaml:"journal"`
	Feed      Feed        `yaml:"feed"`
}

// LoadFromFile reads a YAML config, applies QUANT_* environment overrides,
// and validates. A malformed risk section is replaced with the disabled
// default rather than treated as an error — risk config mistakes must never
// take the process down or trade with garbage limits.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := envconfig.Process("quant", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.Risk = cfg.Risk.Sanitize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile persists the config as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the non-risk sections. Risk is sanitized, not validated,
// so it never produces an error here.
func (c *Config) Validate() error {
	switch c.Journal.Type {
	case "", "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path required for type %q", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be none, csv or sqlite, got %q", c.Journal.Type)
	}

	switch c.Feed.Type {
	case "", "none":
	case "csv":
		if len(c.Feed.Files) == 0 {
			return fmt.Errorf("feed.files required for csv feed")
		}
	case "stream":
		if c.Feed.StreamURL == "" {
			return fmt.Errorf("feed.stream_url required for stream feed")
		}
	default:
		return fmt.Errorf("feed.type must be none, csv or stream, got %q", c.Feed.Type)
	}

	if _, err := c.Scheduler.ParseInterval(); err != nil {
		return fmt.Errorf("scheduler.interval: %w", err)
	}
	if c.Scheduler.LookbackBars < 0 {
		return fmt.Errorf("scheduler.lookback_bars must not be negative")
	}
	return nil
}

// Default returns a configuration with sensible defaults: no feed, no
// journal, trading disabled.
func Default() *Config {
	return &Config{
		App: App{
			Name:     "quant",
			LogLevel: "info",
		},
		Risk: risk.Default(),
		Scheduler: Scheduler{
			Interval:     "5m",
			LookbackBars: 20,
		},
		Journal: Journal{Type: "none"},
		Feed:    Feed{Type: "none"},
	}
}
