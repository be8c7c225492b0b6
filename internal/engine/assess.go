package engine

import (
	"context"
	"time"

	"github.com/rshade/regenesis/internal/impact"
	"github.com/rshade/regenesis/internal/logging"
	"github.com/rshade/regenesis/internal/narrative"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

// Request is one assessment request.
type Request struct {
	WasteType  string  `json:"waste_type"`
	QuantityKg float64 `json:"quantity_kg"`
	Country    string  `json:"country"`
	// Scenario defaults to the engine's default scenario when empty.
	Scenario string `json:"scenario,omitempty"`
	// Weeks is clamped to the roadmap bounds; zero means the default length.
	Weeks     int  `json:"weeks,omitempty"`
	Narrative bool `json:"narrative,omitempty"`
}

// Assessment is the complete answer for one Request.
type Assessment struct {
	Feasibility       scoring.Result   `json:"feasibility"`
	Impact            impact.Estimate  `json:"impact"`
	Roadmap           roadmap.Document `json:"roadmap"`
	Narrative         string           `json:"narrative,omitempty"`
	NarrativeProvider string           `json:"narrative_provider,omitempty"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Assess scores req and derives its impact estimate and roadmap. When a
// narrative is requested and the narrator fails, the failure is logged and
// the assessment is returned without one.
func (e *Engine) Assess(ctx context.Context, req Request) (*Assessment, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "assess").
		Str("waste_type", req.WasteType).
		Float64("quantity_kg", req.QuantityKg).
		Str("country", req.Country).
		Msg("starting assessment")

	scenario, err := e.scenario(req.Scenario)
	if err != nil {
		return nil, err
	}

	result, err := e.score(req)
	if err != nil {
		log.Debug().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "assess").
			Err(err).
			Msg("assessment rejected")
		return nil, err
	}

	est, err := impact.Project(impact.FromFeasibility(result, scenario), e.impact)
	if err != nil {
		return nil, err
	}

	doc, err := roadmap.Generate(req.Weeks, result.FeasibilityScore, result.WasteType, result.Country, e.bounds)
	if err != nil {
		return nil, err
	}

	a := &Assessment{
		Feasibility: result,
		Impact:      est,
		Roadmap:     doc,
		GeneratedAt: e.now().UTC(),
	}

	if req.Narrative {
		e.attachNarrative(ctx, a)
	}

	if !result.CountryMatched && req.Country != "" {
		log.Info().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "assess").
			Str("country", result.Country).
			Msg("country not in reference data, environmental factor uses 0")
	}

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "assess").
		Str("waste_type", result.WasteType).
		Float64("feasibility_score", result.FeasibilityScore).
		Str("status", string(result.Status)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("assessment complete")

	return a, nil
}

// Roadmap scores req and returns only its roadmap.
func (e *Engine) Roadmap(ctx context.Context, req Request) (roadmap.Document, error) {
	result, err := e.score(req)
	if err != nil {
		return roadmap.Document{}, err
	}
	doc, err := roadmap.Generate(req.Weeks, result.FeasibilityScore, result.WasteType, result.Country, e.bounds)
	if err != nil {
		return roadmap.Document{}, err
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "roadmap").
		Str("document_id", doc.ID).
		Int("weeks", doc.Header.DurationWeeks).
		Msg("roadmap generated")
	return doc, nil
}

func (e *Engine) score(req Request) (scoring.Result, error) {
	snap, err := e.store.Snapshot()
	if err != nil {
		return scoring.Result{}, err
	}
	return scoring.Assess(snap, scoring.Input{
		WasteType:  req.WasteType,
		QuantityKg: req.QuantityKg,
		Country:    req.Country,
	}, e.scoring)
}

func (e *Engine) scenario(name string) (impact.Scenario, error) {
	if name == "" {
		return e.defaultScenario, nil
	}
	return impact.ParseScenario(name)
}

func (e *Engine) attachNarrative(ctx context.Context, a *Assessment) {
	if e.narrator == nil {
		return
	}
	text, err := e.narrator.Narrate(ctx, narrative.Request{
		WasteType:        a.Feasibility.WasteType,
		Country:          a.Feasibility.Country,
		FeasibilityScore: a.Feasibility.FeasibilityScore,
	})
	if err != nil {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "narrative").
			Str("provider", e.narrator.Name()).
			Err(err).
			Msg("narrative unavailable, continuing without it")
		return
	}
	a.Narrative = text
	a.NarrativeProvider = e.narrator.Name()
}
