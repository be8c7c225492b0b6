// Package config loads regenesis configuration.
//
// Precedence, lowest first: built-in defaults, the global file
// ($REGENESIS_HOME/config.yaml, default ~/.regenesis/config.yaml), the
// project overlay (.regenesis/config.yaml), a .env file, REGENESIS_* environment
// variables and finally CLI flags (applied by the cli package).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/regenesis/internal/cache"
	"github.com/rshade/regenesis/internal/impact"
	"github.com/rshade/regenesis/internal/narrative"
	"github.com/rshade/regenesis/internal/refdata"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

const (
	configFileName = "config.yaml"
	outputTypeFile = "file"

	// DefaultMarketDataPath is the market table used when none is configured.
	DefaultMarketDataPath = "data/plastic_market_prices.csv"
	// DefaultCountryDataPath is the country table used when none is configured.
	DefaultCountryDataPath = "data/country_data.csv"
	// DefaultServerAddr is the HTTP listen address.
	DefaultServerAddr = ":8080"
)

// Config is the full configuration.
type Config struct {
	Reference ReferenceConfig  `yaml:"reference" json:"reference"`
	Scoring   scoring.Params   `yaml:"scoring"   json:"scoring"`
	Impact    ImpactConfig     `yaml:"impact"    json:"impact"`
	Roadmap   roadmap.Bounds   `yaml:"roadmap"   json:"roadmap"`
	Narrative narrative.Config `yaml:"narrative" json:"narrative"`
	Server    ServerConfig     `yaml:"server"    json:"server"`
	Output    OutputConfig     `yaml:"output"    json:"output"`
	Logging   LoggingConfig    `yaml:"logging"   json:"logging"`

	configPath string
}

// ReferenceConfig locates the reference tables.
type ReferenceConfig struct {
	MarketData     string `yaml:"market_data"     json:"market_data"`
	CountryData    string `yaml:"country_data"    json:"country_data"`
	MismanagedUnit string `yaml:"mismanaged_unit" json:"mismanaged_unit"`
}

// ImpactConfig holds the impact projection constants and default scenario.
type ImpactConfig struct {
	WorkingDaysPerMonth float64 `yaml:"working_days_per_month" json:"working_days_per_month"`
	CO2Factor           float64 `yaml:"co2_factor"             json:"co2_factor"`
	KgPerJob            float64 `yaml:"kg_per_job"             json:"kg_per_job"`
	Scenario            string  `yaml:"scenario"               json:"scenario"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"            json:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file"   json:"file"`
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	ip := impact.DefaultParams()
	cacheDir := ""
	if dir, err := GetConfigDir(); err == nil {
		cacheDir = filepath.Join(dir, "cache", "narrative")
	}

	return &Config{
		Reference: ReferenceConfig{
			MarketData:     DefaultMarketDataPath,
			CountryData:    DefaultCountryDataPath,
			MismanagedUnit: string(refdata.UnitTonnes),
		},
		Scoring: scoring.DefaultParams(),
		Impact: ImpactConfig{
			WorkingDaysPerMonth: ip.WorkingDaysPerMonth,
			CO2Factor:           ip.CO2Factor,
			KgPerJob:            ip.KgPerJob,
			Scenario:            string(impact.DefaultScenario),
		},
		Roadmap: roadmap.DefaultBounds(),
		Narrative: narrative.Config{
			Provider: narrative.ProviderTemplate,
			Model:    narrative.DefaultGeminiModel,
			Cache: narrative.CacheConfig{
				Enabled:    true,
				Dir:        cacheDir,
				TTLSeconds: cache.DefaultTTLSeconds,
				MaxEntries: cache.DefaultMaxEntries,
			},
		},
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			AllowedOrigins: []string{"*"},
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			Precision:     2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New returns the defaults overlaid with the global config file (when it
// exists), the .env file and REGENESIS_* environment variables. Load errors
// are reported on stderr and the defaults kept.
func New() *Config {
	cfg := Default()
	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
	}

	if cfg.configPath != "" {
		if err := cfg.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: ignoring config file %s: %v\n", cfg.configPath, err)
		}
	}

	LoadDotEnv()
	cfg.ApplyEnvOverrides()
	return cfg
}

// Load reads the config file at ConfigPath onto cfg.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", c.configPath, err)
	}
	return nil
}

// Save writes cfg as YAML to ConfigPath, creating parent directories.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.configPath, data, 0o600)
}

// ConfigPath returns the file backing cfg.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Load and Save use.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Validate checks every section and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Reference.MarketData) == "" {
		errs = append(errs, errors.New("reference.market_data is required"))
	}
	if strings.TrimSpace(c.Reference.CountryData) == "" {
		errs = append(errs, errors.New("reference.country_data is required"))
	}
	if _, err := refdata.ParseUnit(c.Reference.MismanagedUnit); err != nil {
		errs = append(errs, fmt.Errorf("reference.mismanaged_unit: %w", err))
	}
	if err := c.Scoring.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scoring: %w", err))
	}
	if _, err := c.ImpactParams(); err != nil {
		errs = append(errs, fmt.Errorf("impact: %w", err))
	}
	if _, err := impact.ParseScenario(c.Impact.Scenario); err != nil {
		errs = append(errs, fmt.Errorf("impact.scenario: %w", err))
	}
	if err := c.Roadmap.Check(); err != nil {
		errs = append(errs, fmt.Errorf("roadmap: %w", err))
	}
	switch strings.ToLower(c.Narrative.Provider) {
	case "", narrative.ProviderTemplate, narrative.ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("narrative.provider: %w: %q", narrative.ErrUnknownProvider, c.Narrative.Provider))
	}
	switch c.Output.DefaultFormat {
	case "table", "json", "ndjson":
	default:
		errs = append(errs, fmt.Errorf("output.default_format must be table, json or ndjson, got %q", c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 6 {
		errs = append(errs, fmt.Errorf("output.precision must be between 0 and 6, got %d", c.Output.Precision))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// ImpactParams converts the impact section and reference unit into
// impact.Params.
func (c *Config) ImpactParams() (impact.Params, error) {
	unit, err := refdata.ParseUnit(c.Reference.MismanagedUnit)
	if err != nil {
		return impact.Params{}, err
	}
	p := impact.Params{
		WorkingDaysPerMonth: c.Impact.WorkingDaysPerMonth,
		CO2Factor:           c.Impact.CO2Factor,
		KgPerJob:            c.Impact.KgPerJob,
		MismanagedUnit:      unit,
	}
	return p, p.Validate()
}
