package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

type roadmapParams struct {
	wasteType string
	quantity  string
	country   string
	weeks     int
	format    string
	out       string
}

// NewRoadmapCmd creates the "roadmap" command that exports a week-by-week
// launch plan for a venture.
func NewRoadmapCmd() *cobra.Command {
	var params roadmapParams

	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Export a week-by-week launch roadmap",
		Long: `Generate a launch roadmap for a venture and write it as Markdown, HTML or JSON.

The venture is scored first; the score selects the strategic focus shown in the
roadmap header. Weeks run through the Discovery & Validation, Prototype, Pilot,
Optimization and Scale phases, four weeks each, with Scale beyond week 16. The
length is clamped to the configured bounds.`,
		Example: `  # Print a 12 week Markdown roadmap
  regenesis roadmap --waste-type PET --quantity 500 --country India --weeks 12

  # Write an HTML roadmap to a file
  regenesis roadmap --waste-type HDPE --quantity 1200 --country Brazil --format html --out plan.html`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRoadmap(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.wasteType, "waste-type", "w", "", "Waste category, e.g. PET or HDPE")
	cmd.Flags().StringVarP(&params.quantity, "quantity", "q", "", "Quantity in kg per month")
	cmd.Flags().StringVarP(&params.country, "country", "c", "", "Country where the waste is collected")
	cmd.Flags().IntVar(&params.weeks, "weeks", 0, "Roadmap length in weeks (default from configuration)")
	cmd.Flags().StringVarP(&params.format, "format", "f", string(roadmap.FormatMarkdown),
		"Export format: markdown, html, or json")
	cmd.Flags().StringVar(&params.out, "out", "", "Write to this file instead of stdout")

	return cmd
}

func executeRoadmap(cmd *cobra.Command, params roadmapParams) error {
	ctx := cmd.Context()

	format, err := roadmap.ParseFormat(params.format)
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

	e, err := newEngine(ctx, engineOptions{})
	if err != nil {
		return err
	}

	doc, err := e.Roadmap(ctx, engine.Request{
		WasteType:  params.wasteType,
		QuantityKg: qty,
		Country:    params.country,
		Weeks:      params.weeks,
	})
	if err != nil {
		return err
	}

	if params.out == "" {
		return roadmap.Export(cmd.OutOrStdout(), doc, format)
	}
	if err := writeRoadmapFile(params.out, doc, format); err != nil {
		return err
	}
	cmd.Printf("Roadmap %s written to %s\n", doc.ID, params.out)
	return nil
}

//nolint:nonamedreturns // Named return lets the deferred Close report its error.
func writeRoadmapFile(path string, doc roadmap.Document, format roadmap.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return roadmap.Export(f, doc, format)
}
