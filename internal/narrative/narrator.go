// Package narrative turns an assessment into a short plain-language summary.
//
// A Narrator only ever sees the waste type, the country and the feasibility
// score. The template narrator works offline; the Gemini narrator calls the
// Google GenAI API and may fail or block independently of the scoring core,
// so callers treat narrative errors as non-fatal.
package narrative

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rshade/regenesis/internal/cache"
	"github.com/rshade/regenesis/internal/logging"
)

// Provider names.
const (
	ProviderTemplate = "template"
	ProviderGemini   = "gemini"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// EnvGeminiAPIKey holds the Gemini API key.
const EnvGeminiAPIKey = "GEMINI_API_KEY"

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrUnknownProvider is returned by New for an unsupported provider.
	ErrUnknownProvider = constError("unknown narrative provider")

	// ErrMissingAPIKey is returned when the Gemini provider has no key.
	ErrMissingAPIKey = constError("GEMINI_API_KEY is not set")

	// ErrEmptyNarrative is returned when a provider produced no text.
	ErrEmptyNarrative = constError("narrative provider returned no text")
)

// Request is everything a narrator is told about an assessment.
type Request struct {
	WasteType        string  `json:"waste_type"`
	Country          string  `json:"country"`
	FeasibilityScore float64 `json:"feasibility_score"`
}

// Narrator produces narrative text for a request.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (string, error)
	Name() string
}

// CacheConfig controls the on-disk narrative cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"     json:"enabled"`
	Dir        string `yaml:"dir"         json:"dir"`
	TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
	MaxEntries int    `yaml:"max_entries" json:"max_entries"`
}

// Config selects and configures a narrator.
type Config struct {
	Provider string      `yaml:"provider" json:"provider"`
	Model    string      `yaml:"model"    json:"model"`
	Cache    CacheConfig `yaml:"cache"    json:"cache"`

	// APIKey overrides GEMINI_API_KEY. Never serialized.
	APIKey string `yaml:"-" json:"-"`
}

// New builds the configured narrator, wrapping it in a cache when enabled.
func New(ctx context.Context, cfg Config) (Narrator, error) {
	var n Narrator
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderTemplate:
		n = NewTemplateNarrator()
	case ProviderGemini:
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv(EnvGeminiAPIKey)
		}
		g, err := NewGeminiNarrator(ctx, key, cfg.Model)
		if err != nil {
			return nil, err
		}
		n = g
	default:
		return nil, fmt.Errorf("%w: %q (valid: template, gemini)", ErrUnknownProvider, cfg.Provider)
	}

	if !cfg.Cache.Enabled || cfg.Cache.Dir == "" {
		return n, nil
	}
	ttl := cfg.Cache.TTLSeconds
	if ttl <= 0 {
		ttl = cache.DefaultTTLSeconds
	}
	store, err := cache.NewFileStore(cfg.Cache.Dir, true, ttl, cfg.Cache.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("opening narrative cache: %w", err)
	}

	log := logging.FromContext(ctx)
	if removed, cerr := store.CleanupExpired(); cerr != nil {
		log.Warn().Str("component", "narrative").Err(cerr).Msg("narrative cache cleanup failed")
	} else if removed > 0 {
		log.Debug().Str("component", "narrative").Int("removed", removed).Msg("expired narratives removed")
	}
	return NewCachedNarrator(n, store), nil
}
