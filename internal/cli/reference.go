package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/regenesis/internal/config"
	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/refdata"
)

// NewReferenceCategoriesCmd creates "reference categories", listing the
// waste types the market table knows.
func NewReferenceCategoriesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List known waste categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeReferenceList(cmd, output, "WASTE CATEGORIES", (*engine.Engine).Categories)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

// NewReferenceCountriesCmd creates "reference countries", listing the
// countries the country table knows.
func NewReferenceCountriesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List known countries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeReferenceList(cmd, output, "COUNTRIES", (*engine.Engine).Countries)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func executeReferenceList(
	cmd *cobra.Command,
	output, header string,
	list func(*engine.Engine) ([]string, error),
) error {
	format, err := resolveOutputFormat(output)
	if err != nil {
		return err
	}
	e, err := newEngine(cmd.Context(), engineOptions{})
	if err != nil {
		return err
	}
	items, err := list(e)
	if err != nil {
		return err
	}
	return renderList(cmd.OutOrStdout(), format, header, items)
}

// referenceReport is the JSON form of "reference validate".
type referenceReport struct {
	MarketData     string   `json:"market_data"`
	CountryData    string   `json:"country_data"`
	Categories     int      `json:"categories"`
	Countries      int      `json:"countries"`
	MaxMismanaged  float64  `json:"max_mismanaged"`
	MismanagedUnit string   `json:"mismanaged_unit"`
	Warnings       []string `json:"warnings,omitempty"`
}

// NewReferenceValidateCmd creates "reference validate", which loads both
// tables and reports what was found.
func NewReferenceValidateCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the reference tables and report problems",
		Long: `Loads the market and country tables exactly as assess does and reports
row counts, the largest mismanaged value, and any warning about the declared
mismanaged unit. Exits non-zero when either table cannot be loaded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeReferenceValidate(cmd, output)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func executeReferenceValidate(cmd *cobra.Command, output string) error {
	format, err := resolveOutputFormat(output)
	if err != nil {
		return err
	}
	cfg := config.GetGlobalConfig()
	unit, err := refdata.ParseUnit(cfg.Reference.MismanagedUnit)
	if err != nil {
		return err
	}

	e, err := newEngine(cmd.Context(), engineOptions{})
	if err != nil {
		return err
	}
	snap, err := e.Store().Snapshot()
	if err != nil {
		return err
	}

	report := referenceReport{
		MarketData:     e.Store().MarketPath(),
		CountryData:    e.Store().CountryPath(),
		Categories:     snap.Market.Len(),
		Countries:      snap.Country.Len(),
		MaxMismanaged:  snap.Country.MaxMismanaged(),
		MismanagedUnit: string(unit),
		Warnings:       snap.Country.CheckUnit(unit),
	}

	if format != outputTable {
		return renderJSON(cmd.OutOrStdout(), report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Market data:  %s (%d categories)\n", report.MarketData, report.Categories)
	fmt.Fprintf(w, "Country data: %s (%d countries, max mismanaged %.2f %s)\n",
		report.CountryData, report.Countries, report.MaxMismanaged, report.MismanagedUnit)
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	if len(report.Warnings) == 0 {
		fmt.Fprintln(w, "✓ Reference data is valid")
	}
	return nil
}
