package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/config"
)

func TestApplyEnvOverrides(t *testing.T) {
	isolateHome(t)

	t.Setenv(config.EnvMarketData, "/data/market.xlsx")
	t.Setenv(config.EnvCountryData, "/data/country.tsv")
	t.Setenv(config.EnvMismanagedUnit, "percent")
	t.Setenv(config.EnvUSDToLocalRate, "83.5")
	t.Setenv(config.EnvLocalCurrency, "INR")
	t.Setenv(config.EnvScenario, "aggressive")
	t.Setenv(config.EnvNarrativeProvider, "gemini")
	t.Setenv(config.EnvNarrativeModel, "gemini-2.5-pro")
	t.Setenv(config.EnvNarrativeCache, "false")
	t.Setenv(config.EnvNarrativeCacheTTL, "2h")
	t.Setenv(config.EnvAddr, ":9090")
	t.Setenv(config.EnvAllowedOrigins, "http://a.example, http://b.example,")
	t.Setenv(config.EnvOutputFormat, "ndjson")
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvLogFile, "/tmp/regenesis.log")

	cfg := config.Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "/data/market.xlsx", cfg.Reference.MarketData)
	assert.Equal(t, "/data/country.tsv", cfg.Reference.CountryData)
	assert.Equal(t, "percent", cfg.Reference.MismanagedUnit)
	assert.InDelta(t, 83.5, cfg.Scoring.USDToLocalRate, 1e-9)
	assert.Equal(t, "aggressive", cfg.Impact.Scenario)
	assert.Equal(t, "gemini", cfg.Narrative.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Narrative.Model)
	assert.False(t, cfg.Narrative.Cache.Enabled)
	assert.Equal(t, 7200, cfg.Narrative.Cache.TTLSeconds)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/regenesis.log", cfg.Logging.File)
}

func TestApplyEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	isolateHome(t)

	t.Setenv(config.EnvUSDToLocalRate, "eighty")
	t.Setenv(config.EnvNarrativeCache, "maybe")
	t.Setenv(config.EnvNarrativeCacheTTL, "1s")
	t.Setenv(config.EnvAddr, "   ")

	cfg := config.Default()
	want := *cfg
	cfg.ApplyEnvOverrides()

	assert.InDelta(t, want.Scoring.USDToLocalRate, cfg.Scoring.USDToLocalRate, 1e-9)
	assert.Equal(t, want.Narrative.Cache, cfg.Narrative.Cache)
	assert.Equal(t, want.Server.Addr, cfg.Server.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	isolateHome(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("REGENESIS_LOCAL_CURRENCY=EUR\nREGENESIS_ADDR=:7000\n"), 0o600))

	// Registered with t.Setenv so the values are restored afterwards.
	t.Setenv(config.EnvLocalCurrency, "")
	_ = os.Unsetenv(config.EnvLocalCurrency)
	t.Setenv(config.EnvAddr, ":6000")

	config.LoadDotEnv(filepath.Join(dir, "missing.env"), envFile)

	assert.Equal(t, "EUR", os.Getenv(config.EnvLocalCurrency))
	assert.Equal(t, ":6000", os.Getenv(config.EnvAddr), "existing variables win over .env")
}
