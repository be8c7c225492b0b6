package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/regenesis/internal/config"
	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/impact"
	"github.com/rshade/regenesis/internal/logging"
	"github.com/rshade/regenesis/internal/narrative"
	"github.com/rshade/regenesis/internal/refdata"
)

// Output formats accepted by --output.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

// engineOptions selects optional engine wiring.
type engineOptions struct {
	narrator bool
}

// newEngine builds an Engine from the global configuration and loads the
// reference tables. A load failure is returned as-is so the caller exits
// non-zero.
func newEngine(ctx context.Context, opts engineOptions) (*engine.Engine, error) {
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	impactParams, err := cfg.ImpactParams()
	if err != nil {
		return nil, fmt.Errorf("invalid impact configuration: %w", err)
	}
	scenario, err := impact.ParseScenario(cfg.Impact.Scenario)
	if err != nil {
		return nil, fmt.Errorf("invalid impact configuration: %w", err)
	}

	engineOpts := engine.Options{
		Scoring:         cfg.Scoring,
		Impact:          impactParams,
		Roadmap:         cfg.Roadmap,
		DefaultScenario: scenario,
	}
	if opts.narrator {
		n, nErr := narrative.New(ctx, cfg.Narrative)
		if nErr != nil {
			log.Warn().
				Ctx(ctx).
				Str("component", "cli").
				Str("operation", "new_narrator").
				Err(nErr).
				Msg("narrative provider unavailable, continuing without narrative")
		} else {
			engineOpts.Narrator = n
		}
	}

	store := refdata.NewStore(cfg.Reference.MarketData, cfg.Reference.CountryData)
	e := engine.New(store, engineOpts)
	if _, err := e.Load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// resolveOutputFormat returns the requested format, or the configured default
// when none was given.
func resolveOutputFormat(requested string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(requested))
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	switch format {
	case outputTable, outputJSON, outputNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (valid: table, json, ndjson)", requested)
	}
}

// addOutputFlag registers --output on cmd.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "",
		"Output format: table, json, or ndjson (default from configuration)")
}
