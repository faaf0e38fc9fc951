package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FINWELL_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10, cfg.Analysis.Workers)
	assert.Equal(t, 30*time.Second, cfg.Analysis.FetchTimeout)
	assert.Equal(t, 0.02, cfg.Risk.RiskFreeRate)
	assert.Equal(t, 0.16, cfg.Risk.MarketVolatility)
	assert.Equal(t, 30, cfg.Reports.RetentionDays)
	assert.Equal(t, "0 0 3 * * *", cfg.Reports.CleanupSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FINWELL_DATA_DIR", t.TempDir())
	t.Setenv("FINWELL_PORT", "9090")
	t.Setenv("ANALYSIS_WORKERS", "4")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "5")
	t.Setenv("RISK_FREE_RATE", "0.035")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("REPORT_RETENTION_DAYS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 5*time.Second, cfg.Analysis.FetchTimeout)
	assert.Equal(t, 0.035, cfg.Risk.RiskFreeRate)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 0, cfg.Reports.RetentionDays)
}

func TestLoad_UnparsableValuesFallBack(t *testing.T) {
	t.Setenv("FINWELL_DATA_DIR", t.TempDir())
	t.Setenv("FINWELL_PORT", "eighty")
	t.Setenv("RISK_FREE_RATE", "two percent")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 0.02, cfg.Risk.RiskFreeRate)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:     8080,
			Analysis: AnalysisConfig{Workers: 10, FetchTimeout: time.Second},
			Risk:     RiskConfig{MarketVolatility: 0.16},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"zero port", func(c *Config) { c.Port = 0 }, false},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, false},
		{"negative retention", func(c *Config) { c.Reports.RetentionDays = -1 }, false},
		{"zero market volatility", func(c *Config) { c.Risk.MarketVolatility = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
