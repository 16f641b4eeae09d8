package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendWatch/internal/model"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Dashboard.PollInterval)
	assert.Equal(t, model.DefaultSelection, cfg.DefaultSelection())
	assert.False(t, cfg.Development())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
api:
  base_url: http://analysis.internal:9000
  timeout: 3s
dashboard:
  default_coin: ethereum
  default_period: 7d
  poll_interval: 30s
  environment: development
database:
  sqlite_path: /tmp/tw.db
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("DEFAULT_PERIOD", "90d")
	t.Setenv("POLL_INTERVAL", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://analysis.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, model.Selection{Coin: model.CoinEthereum, Period: model.Period90d}, cfg.DefaultSelection())
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.PollInterval)
	assert.Equal(t, "/tmp/tw.db", cfg.Database.SQLitePath)
	assert.True(t, cfg.Development())
}

func TestLoad_BadPollIntervalEnv(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_DemoModeEnv(t *testing.T) {
	t.Setenv("DEMO_MODE", "true")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.API.Demo)

	t.Setenv("DEMO_MODE", "maybe")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown coin", func(c *Config) { c.Dashboard.DefaultCoin = "dogecoin" }},
		{"unknown period", func(c *Config) { c.Dashboard.DefaultPeriod = "1y" }},
		{"interval too short", func(c *Config) { c.Dashboard.PollInterval = 500 * time.Millisecond }},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
