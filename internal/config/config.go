package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"TrendWatch/internal/model"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
		// Demo serves generated snapshots instead of calling the backend.
		Demo bool `yaml:"demo"`
	} `yaml:"api"`
	Dashboard struct {
		DefaultCoin   string        `yaml:"default_coin"`
		DefaultPeriod string        `yaml:"default_period"`
		PollInterval  time.Duration `yaml:"poll_interval"`
		Environment   string        `yaml:"environment"`
		Color         bool          `yaml:"color"`
	} `yaml:"dashboard"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ANALYSIS_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("DEMO_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse DEMO_MODE: %w", err)
		}
		cfg.API.Demo = b
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TRENDWATCH_ENV"); v != "" {
		cfg.Dashboard.Environment = v
	}
	if v := os.Getenv("DEFAULT_COIN"); v != "" {
		cfg.Dashboard.DefaultCoin = v
	}
	if v := os.Getenv("DEFAULT_PERIOD"); v != "" {
		cfg.Dashboard.DefaultPeriod = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse POLL_INTERVAL: %w", err)
		}
		cfg.Dashboard.PollInterval = d
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if cfg.Dashboard.DefaultCoin == "" {
		cfg.Dashboard.DefaultCoin = string(model.DefaultSelection.Coin)
	}
	if cfg.Dashboard.DefaultPeriod == "" {
		cfg.Dashboard.DefaultPeriod = string(model.DefaultSelection.Period)
	}
	if cfg.Dashboard.PollInterval == 0 {
		cfg.Dashboard.PollInterval = 60 * time.Second
	}
	if cfg.Dashboard.Environment == "" {
		cfg.Dashboard.Environment = "production"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if _, ok := model.ParseCoin(c.Dashboard.DefaultCoin); !ok {
		return fmt.Errorf("dashboard.default_coin %q is not a supported coin", c.Dashboard.DefaultCoin)
	}
	if _, ok := model.ParsePeriod(c.Dashboard.DefaultPeriod); !ok {
		return fmt.Errorf("dashboard.default_period %q is not a supported period", c.Dashboard.DefaultPeriod)
	}
	if c.Dashboard.PollInterval < time.Second {
		return fmt.Errorf("dashboard.poll_interval must be at least 1s")
	}
	return nil
}

// Development reports whether the debug panel should be shown.
func (c *Config) Development() bool {
	return c.Dashboard.Environment == "development"
}

// DefaultSelection returns the validated startup selection.
func (c *Config) DefaultSelection() model.Selection {
	return model.Selection{
		Coin:   model.Coin(c.Dashboard.DefaultCoin),
		Period: model.Period(c.Dashboard.DefaultPeriod),
	}
}
