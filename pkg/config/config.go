// Package config loads runtime settings from an optional YAML file with
// environment variable overrides. A missing file yields pure defaults, so
// the binaries run with no setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML scalars like "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all application configuration.
type Config struct {
	Analysis struct {
		DefaultTaxRate         float64  `yaml:"default_tax_rate"`
		Timeout                Duration `yaml:"timeout"`
		MinAnnualPeriods       int      `yaml:"min_annual_periods"`
		PreferredAnnualPeriods int      `yaml:"preferred_annual_periods"`
		MaxRecommendations     int      `yaml:"max_recommendations"`
	} `yaml:"analysis"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A nonexistent path is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DEFAULT_TAX_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 && rate < 1 {
			cfg.Analysis.DefaultTaxRate = rate
		}
	}

	cfg.normalize()
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Analysis.DefaultTaxRate = 0.21
	cfg.Analysis.Timeout = Duration(30 * time.Second)
	cfg.Analysis.MinAnnualPeriods = 2
	cfg.Analysis.PreferredAnnualPeriods = 5
	cfg.Analysis.MaxRecommendations = 8
	cfg.Server.Port = "8080"
	return cfg
}

// normalize pulls out-of-range values back to defaults rather than failing.
func (c *Config) normalize() {
	d := defaults()
	if c.Analysis.DefaultTaxRate <= 0 || c.Analysis.DefaultTaxRate >= 1 {
		c.Analysis.DefaultTaxRate = d.Analysis.DefaultTaxRate
	}
	if c.Analysis.Timeout <= 0 {
		c.Analysis.Timeout = d.Analysis.Timeout
	}
	if c.Analysis.MinAnnualPeriods < 2 {
		c.Analysis.MinAnnualPeriods = d.Analysis.MinAnnualPeriods
	}
	if c.Analysis.PreferredAnnualPeriods < c.Analysis.MinAnnualPeriods {
		c.Analysis.PreferredAnnualPeriods = d.Analysis.PreferredAnnualPeriods
	}
	if c.Analysis.MaxRecommendations <= 0 {
		c.Analysis.MaxRecommendations = d.Analysis.MaxRecommendations
	}
	if c.Server.Port == "" {
		c.Server.Port = d.Server.Port
	}
}
