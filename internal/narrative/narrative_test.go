package narrative

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/cache"
)

type countingNarrator struct {
	calls int
	text  string
	err   error
}

func (c *countingNarrator) Name() string { return "counting" }

func (c *countingNarrator) Narrate(_ context.Context, _ Request) (string, error) {
	c.calls++
	return c.text, c.err
}

func TestTemplateNarrator(t *testing.T) {
	n := NewTemplateNarrator()
	assert.Equal(t, ProviderTemplate, n.Name())

	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"high risk", 12, "looks risky"},
		{"moderate", 33.6, "moderate opportunity"},
		{"high potential", 70, "high potential"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := n.Narrate(context.Background(), Request{WasteType: "PET", Country: "united states", FeasibilityScore: tt.score})
			require.NoError(t, err)
			assert.Contains(t, text, tt.want)
			assert.Contains(t, text, "PET in United States")
		})
	}

	text, err := n.Narrate(context.Background(), Request{WasteType: "PVC", FeasibilityScore: 33.6})
	require.NoError(t, err)
	assert.Contains(t, text, "the selected market")
	assert.Contains(t, text, "33.60/100 (Moderate Opportunity)")
}

func TestTemplateNarrator_Deterministic(t *testing.T) {
	n := NewTemplateNarrator()
	req := Request{WasteType: "HDPE", Country: "india", FeasibilityScore: 55.25}

	a, err := n.Narrate(context.Background(), req)
	require.NoError(t, err)
	b, err := n.Narrate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCachedNarrator(t *testing.T) {
	store, err := cache.NewFileStore(t.TempDir(), true, 3600, 0)
	require.NoError(t, err)

	inner := &countingNarrator{text: "cached words"}
	n := NewCachedNarrator(inner, store)
	req := Request{WasteType: "PET", Country: "India", FeasibilityScore: 33.6}

	for range 3 {
		text, err := n.Narrate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "cached words", text)
	}
	assert.Equal(t, 1, inner.calls)

	t.Run("country is normalized in the key", func(t *testing.T) {
		assert.Equal(t, n.Key(req), n.Key(Request{WasteType: "PET", Country: " india ", FeasibilityScore: 33.6}))
		assert.NotEqual(t, n.Key(req), n.Key(Request{WasteType: "PET", Country: "india", FeasibilityScore: 33.7}))
	})

	t.Run("errors are not cached", func(t *testing.T) {
		failing := &countingNarrator{err: errors.New("quota exceeded")}
		fn := NewCachedNarrator(failing, store)
		other := Request{WasteType: "LDPE", Country: "brazil", FeasibilityScore: 10}

		_, err := fn.Narrate(context.Background(), other)
		require.Error(t, err)
		_, err = fn.Narrate(context.Background(), other)
		require.Error(t, err)
		assert.Equal(t, 2, failing.calls)
	})
}

func TestNew(t *testing.T) {
	t.Run("default is template", func(t *testing.T) {
		n, err := New(context.Background(), Config{})
		require.NoError(t, err)
		assert.IsType(t, &TemplateNarrator{}, n)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(context.Background(), Config{Provider: "oracle"})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("gemini without key", func(t *testing.T) {
		t.Setenv(EnvGeminiAPIKey, "")
		_, err := New(context.Background(), Config{Provider: ProviderGemini})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("gemini with key", func(t *testing.T) {
		n, err := New(context.Background(), Config{Provider: "Gemini", APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, "gemini:"+DefaultGeminiModel, n.Name())
	})

	t.Run("cache wraps provider", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "narrative")
		n, err := New(context.Background(), Config{
			Provider: ProviderTemplate,
			Cache:    CacheConfig{Enabled: true, Dir: dir},
		})
		require.NoError(t, err)
		require.IsType(t, &CachedNarrator{}, n)
		assert.Equal(t, ProviderTemplate, n.Name())

		_, err = n.Narrate(context.Background(), Request{WasteType: "PET", Country: "india", FeasibilityScore: 40})
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})

	t.Run("cache drops expired entries on open", func(t *testing.T) {
		dir := t.TempDir()
		stale, err := cache.NewFileStore(dir, true, -1, 0)
		require.NoError(t, err)
		require.NoError(t, stale.Set("old", []byte(`"text"`)))
		count, err := stale.Count()
		require.NoError(t, err)
		require.Equal(t, 1, count)

		_, err = New(context.Background(), Config{Cache: CacheConfig{Enabled: true, Dir: dir}})
		require.NoError(t, err)

		count, err = stale.Count()
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain text \n", "plain text"},
		{"```markdown\nFenced body\n```", "Fenced body"},
		{"```\nbare fence\n```", "bare fence"},
		{"```inline```", "inline"},
		{"no ``` closing", "no ``` closing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanMarkdown(tt.in), tt.in)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(Request{WasteType: "PET", Country: "india", FeasibilityScore: 72})
	assert.Contains(t, p, "PET in india")
	assert.Contains(t, p, "72.00 out of 100 (High Potential)")

	p = buildPrompt(Request{WasteType: "PET", FeasibilityScore: 5})
	assert.Contains(t, p, "an unspecified country")
}
