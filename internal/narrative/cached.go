package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/rshade/regenesis/internal/cache"
	"github.com/rshade/regenesis/internal/logging"
	"github.com/rshade/regenesis/internal/refdata"
)

// CachedNarrator serves repeated requests from a FileStore. Cache failures
// are logged and otherwise ignored.
type CachedNarrator struct {
	next  Narrator
	store *cache.FileStore
}

// NewCachedNarrator wraps next with store.
func NewCachedNarrator(next Narrator, store *cache.FileStore) *CachedNarrator {
	return &CachedNarrator{next: next, store: store}
}

// Name implements Narrator.
func (c *CachedNarrator) Name() string { return c.next.Name() }

type cachedNarrative struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
}

// Narrate implements Narrator.
func (c *CachedNarrator) Narrate(ctx context.Context, req Request) (string, error) {
	log := logging.FromContext(ctx)
	key := c.Key(req)

	entry, err := c.store.Get(key)
	switch {
	case err == nil:
		var hit cachedNarrative
		if decodeErr := entry.Decode(&hit); decodeErr == nil && hit.Text != "" {
			log.Debug().
				Ctx(ctx).
				Str("component", "narrative").
				Str("operation", "cache_hit").
				Str("provider", c.next.Name()).
				Msg("narrative served from cache")
			return hit.Text, nil
		}
	case errors.Is(err, cache.ErrCacheNotFound), errors.Is(err, cache.ErrCacheExpired):
	default:
		log.Warn().
			Ctx(ctx).
			Str("component", "narrative").
			Str("operation", "cache_get").
			Err(err).
			Msg("narrative cache read failed")
	}

	text, err := c.next.Narrate(ctx, req)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(cachedNarrative{Text: text, Provider: c.next.Name()})
	if err == nil {
		err = c.store.Set(key, payload)
	}
	if err != nil {
		log.Warn().
			Ctx(ctx).
			Str("component", "narrative").
			Str("operation", "cache_set").
			Err(err).
			Msg("narrative cache write failed")
	}
	return text, nil
}

// Key is the cache key for req under the wrapped provider.
func (c *CachedNarrator) Key(req Request) string {
	return cache.Key(
		c.next.Name(),
		req.WasteType,
		refdata.NormalizeCountry(req.Country),
		strconv.FormatFloat(req.FeasibilityScore, 'f', 2, 64),
	)
}
