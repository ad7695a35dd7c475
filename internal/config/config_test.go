package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate-engine/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REBATE_PERIOD", "REBATE_YEAR", "REBATE_MONTH", "REBATE_DEFAULT_LEVEL",
		"REBATE_WORKERS", "REBATE_EMIT_ZERO", "REBATE_DB_PATH", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "monthly", cfg.Reporting.Period)
	assert.Equal(t, 1, cfg.Calculation.DefaultLevel)
	assert.Equal(t, 1, cfg.Calculation.Workers)
	assert.False(t, cfg.Calculation.EmitZeroRebates)
	assert.Empty(t, cfg.Database.Path)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"reporting": {"period": "yearly", "year": 2024},
		"calculation": {"default_level": 3, "provider_levels": {"P1": 5}, "workers": 4},
		"database": {"path": "file.db"}
	}`), 0o600))

	t.Setenv("REBATE_DB_PATH", "env.db")
	t.Setenv("REBATE_EMIT_ZERO", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	period, err := cfg.RatePeriod()
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodYearly, period)
	assert.Equal(t, 2024, cfg.Reporting.Year)
	assert.Equal(t, 3, cfg.Calculation.DefaultLevel)
	assert.Equal(t, map[string]int{"P1": 5}, cfg.Calculation.ProviderLevels)
	assert.Equal(t, 4, cfg.Calculation.Workers)
	assert.Equal(t, "env.db", cfg.Database.Path, "environment wins over the file")
	assert.True(t, cfg.Calculation.EmitZeroRebates)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"reporting":`), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Reporting:   ReportingConfig{Period: "monthly", Month: 9},
			Calculation: CalculationConfig{DefaultLevel: 1, Workers: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown period", mutate: func(c *Config) { c.Reporting.Period = "weekly" }},
		{name: "month out of range", mutate: func(c *Config) { c.Reporting.Month = 13 }},
		{name: "default level out of range", mutate: func(c *Config) { c.Calculation.DefaultLevel = 9 }},
		{name: "provider level out of range", mutate: func(c *Config) { c.Calculation.ProviderLevels = map[string]int{"P1": 0} }},
		{name: "no workers", mutate: func(c *Config) { c.Calculation.Workers = 0 }},
	}

	assert.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
