package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/regenesis/internal/cli/pagination"
	"github.com/rshade/regenesis/internal/config"
	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/engine/batch"
	"github.com/rshade/regenesis/internal/scoring"
)

// ErrAllBatchItemsFailed is returned when no request in a batch succeeded.
var ErrAllBatchItemsFailed = errors.New("every request in the batch failed")

type assessParams struct {
	wasteType   string
	quantity    string
	country     string
	scenario    string
	weeks       int
	narrative   bool
	explain     bool
	output      string
	batchFile   string
	concurrency int
	page        pagination.Params
}

// NewAssessCmd creates the "assess" command that scores one venture, or every
// row of a batch file.
func NewAssessCmd() *cobra.Command {
	var params assessParams

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score the feasibility of a recycling venture",
		Long: `Score a recycling venture from its waste type, monthly quantity and country.

The feasibility score (0-100) combines the market price and demand of the
waste type, a scale factor that grows with quantity, and an environmental
factor driven by how much plastic the country mismanages. The result includes
projected revenue, CO2 savings, jobs, and the first weeks of a roadmap.

With --batch, every row of a .csv, .tsv or .xlsx file is scored. The file
needs waste_type and quantity_kg columns; country, scenario and weeks are
optional. Rows that fail are reported without stopping the batch.`,
		Example: `  # Score 500 kg of PET collected in India
  regenesis assess --waste-type PET --quantity 500 --country India

  # Aggressive scenario with a short explanation of the formula
  regenesis assess --waste-type HDPE --quantity 1200 --country Brazil --scenario aggressive --explain

  # Output as JSON with an AI narrative
  regenesis assess --waste-type PET --quantity 500 --country India --narrative --output json

  # Score a spreadsheet, top 10 by score
  regenesis assess --batch ventures.xlsx --sort score:desc --limit 10

  # Stream batch results as NDJSON (first line is a summary)
  regenesis assess --batch ventures.csv --output ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if params.batchFile != "" {
				return executeAssessBatch(cmd, params)
			}
			return executeAssess(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.wasteType, "waste-type", "w", "", "Waste category, e.g. PET or HDPE")
	cmd.Flags().StringVarP(&params.quantity, "quantity", "q", "", "Quantity in kg per month")
	cmd.Flags().StringVarP(&params.country, "country", "c", "", "Country where the waste is collected")
	cmd.Flags().StringVar(&params.scenario, "scenario", "",
		"Impact scenario: conservative, balanced or aggressive (default from configuration)")
	cmd.Flags().IntVar(&params.weeks, "weeks", 0, "Roadmap length in weeks (default from configuration)")
	cmd.Flags().BoolVar(&params.narrative, "narrative", false, "Add a plain-language narrative")
	cmd.Flags().BoolVar(&params.explain, "explain", false, "Explain how the score is built")
	addOutputFlag(cmd, &params.output)

	cmd.Flags().StringVar(&params.batchFile, "batch", "", "Score every row of a .csv, .tsv or .xlsx file")
	cmd.Flags().IntVar(&params.concurrency, "concurrency", batch.DefaultConcurrency,
		"Number of concurrent assessments in batch mode")
	cmd.Flags().StringVar(&params.page.Sort, "sort", "",
		"Sort batch results: field or field:order ("+strings.Join(pagination.ValidFields(), ", ")+")")
	cmd.Flags().IntVar(&params.page.Limit, "limit", 0, "Maximum number of batch results to show (0 = all)")
	cmd.Flags().IntVar(&params.page.Offset, "offset", 0, "Number of batch results to skip")
	cmd.Flags().IntVar(&params.page.Page, "page", 0, "Page number of batch results (1-indexed, 0 = disabled)")
	cmd.Flags().IntVar(&params.page.PageSize, "page-size", 0, "Batch results per page (requires --page)")

	cmd.MarkFlagsMutuallyExclusive("batch", "waste-type")
	cmd.MarkFlagsMutuallyExclusive("batch", "quantity")

	return cmd
}

func executeAssess(cmd *cobra.Command, params assessParams) error {
	ctx := cmd.Context()

	format, err := resolveOutputFormat(params.output)
	if err != nil {
		return err
	}
	if strings.TrimSpace(params.wasteType) == "" {
		return errors.New("--waste-type is required")
	}
	qty, err := scoring.ParseQuantity(params.quantity)
	if err != nil {
		return err
	}

	e, err := newEngine(ctx, engineOptions{narrator: params.narrative})
	if err != nil {
		return err
	}

	result, err := e.Assess(ctx, engine.Request{
		WasteType:  params.wasteType,
		QuantityKg: qty,
		Country:    params.country,
		Scenario:   params.scenario,
		Weeks:      params.weeks,
		Narrative:  params.narrative,
	})
	if err != nil {
		return err
	}

	if !result.Feasibility.CountryMatched && params.country != "" {
		cmd.PrintErrf("Warning: country %q not found in reference data; environmental factor omitted\n", params.country)
	}

	view := assessmentView{Assessment: result}
	if params.explain {
		view.Explain = scoring.Explain(e.ScoringParams())
	}
	return renderAssessment(cmd.OutOrStdout(), format, view, config.GetOutputPrecision())
}

func executeAssessBatch(cmd *cobra.Command, params assessParams) error {
	ctx := cmd.Context()

	format, err := resolveOutputFormat(params.output)
	if err != nil {
		return err
	}
	if err := params.page.Validate(); err != nil {
		return err
	}

	reqs, err := engine.ReadRequests(params.batchFile)
	if err != nil {
		return err
	}
	for i := range reqs {
		reqs[i].Narrative = params.narrative
		if reqs[i].Scenario == "" {
			reqs[i].Scenario = params.scenario
		}
		if reqs[i].Weeks == 0 {
			reqs[i].Weeks = params.weeks
		}
	}

	e, err := newEngine(ctx, engineOptions{narrator: params.narrative})
	if err != nil {
		return err
	}

	items, err := e.AssessBatch(ctx, reqs, engine.BatchOptions{
		Concurrency: params.concurrency,
		OnProgress:  batchProgressLogger(),
	})
	if err != nil {
		return err
	}

	summary := engine.Summarize(items)
	window := pagination.Apply(items, params.page)
	var meta *pagination.Meta
	if params.page.IsEnabled() {
		m := pagination.NewMeta(params.page, len(items))
		meta = &m
	}

	if err := renderBatch(cmd.OutOrStdout(), format, summary, window, meta, config.GetOutputPrecision()); err != nil {
		return err
	}
	if summary.Total > 0 && summary.Succeeded == 0 {
		return fmt.Errorf("%w (%d requests)", ErrAllBatchItemsFailed, summary.Total)
	}
	return nil
}

// batchProgressLogger reports batch progress at debug level.
func batchProgressLogger() batch.ProgressCallback {
	return func(s batch.ProgressSnapshot) {
		ev := logger.Debug().
			Str("operation", "assess_batch").
			Int("processed", s.ProcessedItems).
			Int("total", s.TotalItems).
			Int("failed", s.FailedItems).
			Float64("percent", s.PercentComplete)
		if s.IsComplete() {
			ev.Dur("elapsed", s.ElapsedTime).Msg("batch rows assessed")
			return
		}
		ev.Msg("batch progress")
	}
}
