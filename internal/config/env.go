package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rshade/regenesis/internal/cache"
)

// Environment variables recognised by ApplyEnvOverrides.
const (
	EnvHome              = "REGENESIS_HOME"
	EnvProjectDir        = "REGENESIS_PROJECT_DIR"
	EnvMarketData        = "REGENESIS_MARKET_DATA"
	EnvCountryData       = "REGENESIS_COUNTRY_DATA"
	EnvMismanagedUnit    = "REGENESIS_MISMANAGED_UNIT"
	EnvUSDToLocalRate    = "REGENESIS_USD_TO_LOCAL_RATE"
	EnvLocalCurrency     = "REGENESIS_LOCAL_CURRENCY"
	EnvScenario          = "REGENESIS_SCENARIO"
	EnvNarrativeProvider = "REGENESIS_NARRATIVE_PROVIDER"
	EnvNarrativeModel    = "REGENESIS_NARRATIVE_MODEL"
	EnvNarrativeCache    = "REGENESIS_NARRATIVE_CACHE"
	EnvNarrativeCacheTTL = "REGENESIS_NARRATIVE_CACHE_TTL"
	EnvAddr              = "REGENESIS_ADDR"
	EnvAllowedOrigins    = "REGENESIS_ALLOWED_ORIGINS"
	EnvOutputFormat      = "REGENESIS_OUTPUT_FORMAT"
	EnvLogLevel          = "REGENESIS_LOG_LEVEL"
	EnvLogFormat         = "REGENESIS_LOG_FORMAT"
	EnvLogFile           = "REGENESIS_LOG_FILE"
)

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. With no paths, .env in the working directory is used.
// Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

// ApplyEnvOverrides overlays REGENESIS_* variables onto cfg. Values that fail
// to parse are reported on stderr and the current setting kept.
func (c *Config) ApplyEnvOverrides() {
	setString(EnvMarketData, &c.Reference.MarketData)
	setString(EnvCountryData, &c.Reference.CountryData)
	setString(EnvMismanagedUnit, &c.Reference.MismanagedUnit)
	setFloat(EnvUSDToLocalRate, &c.Scoring.USDToLocalRate)
	setString(EnvLocalCurrency, &c.Scoring.LocalCurrency)
	setString(EnvScenario, &c.Impact.Scenario)
	setString(EnvNarrativeProvider, &c.Narrative.Provider)
	setString(EnvNarrativeModel, &c.Narrative.Model)
	setBool(EnvNarrativeCache, &c.Narrative.Cache.Enabled)
	if v, ok := lookup(EnvNarrativeCacheTTL); ok {
		ttl, err := cache.ParseTTL(v)
		if err != nil {
			warnEnv(EnvNarrativeCacheTTL, v, err)
		} else {
			c.Narrative.Cache.TTLSeconds = ttl
		}
	}
	setString(EnvAddr, &c.Server.Addr)
	if v, ok := lookup(EnvAllowedOrigins); ok {
		c.Server.AllowedOrigins = splitCSV(v)
	}
	setString(EnvOutputFormat, &c.Output.DefaultFormat)
	setString(EnvLogLevel, &c.Logging.Level)
	setString(EnvLogFormat, &c.Logging.Format)
	setString(EnvLogFile, &c.Logging.File)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setFloat(key string, dst *float64) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		warnEnv(key, v, err)
		return
	}
	*dst = f
}

func setBool(key string, dst *bool) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		warnEnv(key, v, err)
		return
	}
	*dst = b
}

func warnEnv(key, value string, err error) {
	fmt.Fprintf(os.Stderr, "Warning: ignoring %s=%q: %v\n", key, value, err)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
