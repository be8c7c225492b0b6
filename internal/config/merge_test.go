package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/config"
)

func writeOverlay(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMergeYAML(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, got, base *config.Config)
	}{
		{
			name: "field level merge within a section",
			body: "scoring:\n  usd_to_local_rate: 95\n",
			check: func(t *testing.T, got, base *config.Config) {
				assert.InDelta(t, 95.0, got.Scoring.USDToLocalRate, 1e-9)
				assert.InDelta(t, base.Scoring.ScaleDivisor, got.Scoring.ScaleDivisor, 1e-9)
				assert.Equal(t, base.Scoring.LocalCurrency, got.Scoring.LocalCurrency)
			},
		},
		{
			name: "absent sections untouched",
			body: "output:\n  default_format: json\n",
			check: func(t *testing.T, got, base *config.Config) {
				assert.Equal(t, "json", got.Output.DefaultFormat)
				assert.Equal(t, base.Reference, got.Reference)
				assert.Equal(t, base.Roadmap, got.Roadmap)
			},
		},
		{
			name: "lists are replaced",
			body: "server:\n  allowed_origins: [\"http://localhost:3000\"]\n",
			check: func(t *testing.T, got, base *config.Config) {
				assert.Equal(t, []string{"http://localhost:3000"}, got.Server.AllowedOrigins)
				assert.Equal(t, base.Server.Addr, got.Server.Addr)
			},
		},
		{
			name: "nested narrative cache",
			body: "narrative:\n  provider: gemini\n  cache:\n    ttl_seconds: 600\n",
			check: func(t *testing.T, got, base *config.Config) {
				assert.Equal(t, "gemini", got.Narrative.Provider)
				assert.Equal(t, 600, got.Narrative.Cache.TTLSeconds)
				assert.Equal(t, base.Narrative.Cache.Dir, got.Narrative.Cache.Dir)
			},
		},
		{
			name: "unknown keys ignored",
			body: "plugins:\n  aws: {}\nroadmap:\n  default_weeks: 6\n",
			check: func(t *testing.T, got, _ *config.Config) {
				assert.Equal(t, 6, got.Roadmap.Default)
			},
		},
		{
			name: "comment only file",
			body: "# nothing here\n",
			check: func(t *testing.T, got, base *config.Config) {
				assert.Equal(t, base, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := config.Default()
			got := config.Default()
			require.NoError(t, config.MergeYAML(got, writeOverlay(t, tt.body)))
			tt.check(t, got, base)
		})
	}
}

func TestMergeYAML_Errors(t *testing.T) {
	isolateHome(t)

	t.Run("nil target", func(t *testing.T) {
		assert.Error(t, config.MergeYAML(nil, "unused.yaml"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.MergeYAML(config.Default(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		assert.Error(t, config.MergeYAML(config.Default(), writeOverlay(t, "scoring: [unterminated")))
	})

	t.Run("bad section leaves target untouched", func(t *testing.T) {
		cfg := config.Default()
		want := cfg.Scoring
		err := config.MergeYAML(cfg, writeOverlay(t, "scoring:\n  usd_to_local_rate: lots\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"scoring"`)
		assert.Equal(t, want, cfg.Scoring)
	})
}
