package refdata

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/regenesis/internal/logging"
)

// Snapshot is an immutable pair of loaded tables.
type Snapshot struct {
	Market   MarketTable
	Country  CountryTable
	LoadedAt time.Time
}

// NewSnapshot bundles already-built tables, mainly for tests and embedding.
func NewSnapshot(market MarketTable, country CountryTable) *Snapshot {
	return &Snapshot{Market: market, Country: country, LoadedAt: time.Now()}
}

// Store owns the process's reference tables. It is safe for concurrent use:
// readers take the current Snapshot, Reload swaps in a new one.
type Store struct {
	marketPath  string
	countryPath string

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore returns an empty store for the given file paths. Call Load before
// taking a Snapshot.
func NewStore(marketPath, countryPath string) *Store {
	return &Store{marketPath: marketPath, countryPath: countryPath}
}

// MarketPath returns the configured market table path.
func (s *Store) MarketPath() string { return s.marketPath }

// CountryPath returns the configured country table path.
func (s *Store) CountryPath() string { return s.countryPath }

// Load reads both tables concurrently and installs them. On error the
// previous snapshot, if any, stays in place.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	var (
		market  MarketTable
		country CountryTable
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		market, err = LoadMarketData(s.marketPath)
		return err
	})
	g.Go(func() error {
		var err error
		country, err = LoadCountryData(s.countryPath)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "refdata").
			Str("operation", "load").
			Err(err).
			Msg("reference data load failed")
		return nil, err
	}

	snap := NewSnapshot(market, country)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	log.Info().
		Ctx(ctx).
		Str("component", "refdata").
		Str("operation", "load").
		Int("categories", market.Len()).
		Int("countries", country.Len()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("reference data loaded")
	return snap, nil
}

// Reload re-reads the files, replacing the cached snapshot on success.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	return s.Load(ctx)
}

// Snapshot returns the current tables or ErrNotLoaded.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

// Set installs snap directly, bypassing the files.
func (s *Store) Set(snap *Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}
