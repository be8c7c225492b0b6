// Package engine chains the reference store, scoring, impact projection,
// roadmap generation and the optional narrative into one Assessment.
package engine

import (
	"context"
	"time"

	"github.com/rshade/regenesis/internal/impact"
	"github.com/rshade/regenesis/internal/logging"
	"github.com/rshade/regenesis/internal/narrative"
	"github.com/rshade/regenesis/internal/refdata"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

// Options configures an Engine. Zero-valued parameter sets fall back to the
// package defaults.
type Options struct {
	Scoring         scoring.Params
	Impact          impact.Params
	Roadmap         roadmap.Bounds
	DefaultScenario impact.Scenario

	// Narrator is used for requests that ask for a narrative. Nil disables
	// narratives.
	Narrator narrative.Narrator

	// Now is injectable for tests.
	Now func() time.Time
}

// Engine runs assessments against a refdata.Store. It is safe for
// concurrent use.
type Engine struct {
	store           *refdata.Store
	scoring         scoring.Params
	impact          impact.Params
	bounds          roadmap.Bounds
	defaultScenario impact.Scenario
	narrator        narrative.Narrator
	now             func() time.Time
}

// New creates an Engine over store.
func New(store *refdata.Store, opts Options) *Engine {
	e := &Engine{
		store:           store,
		scoring:         opts.Scoring,
		impact:          opts.Impact,
		bounds:          opts.Roadmap,
		defaultScenario: opts.DefaultScenario,
		narrator:        opts.Narrator,
		now:             opts.Now,
	}
	if e.scoring == (scoring.Params{}) {
		e.scoring = scoring.DefaultParams()
	}
	if e.impact == (impact.Params{}) {
		e.impact = impact.DefaultParams()
	}
	if e.bounds == (roadmap.Bounds{}) {
		e.bounds = roadmap.DefaultBounds()
	}
	if e.defaultScenario == "" {
		e.defaultScenario = impact.DefaultScenario
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Store returns the underlying reference store.
func (e *Engine) Store() *refdata.Store { return e.store }

// Bounds returns the roadmap bounds in use.
func (e *Engine) Bounds() roadmap.Bounds { return e.bounds }

// ScoringParams returns the scoring parameters in use.
func (e *Engine) ScoringParams() scoring.Params { return e.scoring }

// Load reads the reference tables and logs unit sanity warnings.
func (e *Engine) Load(ctx context.Context) (*refdata.Snapshot, error) {
	snap, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.logUnitWarnings(ctx, snap)
	return snap, nil
}

// Reload re-reads the reference tables. On failure the previous tables stay
// in use.
func (e *Engine) Reload(ctx context.Context) (*refdata.Snapshot, error) {
	snap, err := e.store.Reload(ctx)
	if err != nil {
		return nil, err
	}
	e.logUnitWarnings(ctx, snap)
	return snap, nil
}

func (e *Engine) logUnitWarnings(ctx context.Context, snap *refdata.Snapshot) {
	log := logging.FromContext(ctx)
	for _, w := range snap.Country.CheckUnit(e.impact.MismanagedUnit) {
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "check_unit").
			Str("unit", string(e.impact.MismanagedUnit)).
			Msg(w)
	}
}

// Categories lists the loaded waste categories, sorted.
func (e *Engine) Categories() ([]string, error) {
	snap, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Market.Categories(), nil
}

// Countries lists the loaded countries, sorted.
func (e *Engine) Countries() ([]string, error) {
	snap, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Country.Countries(), nil
}
