package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/regenesis/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long: `Validates the effective configuration for semantic correctness.

This includes:
- Reference table paths and the mismanaged unit
- Scoring constants and status thresholds
- Impact constants and the default scenario
- Roadmap bounds
- Narrative provider, output format and log level`,
		Example: `  # Validate current configuration
  regenesis config validate

  # Validate and show detailed information
  regenesis config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Println("✓ Configuration is valid")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	if path := cfg.ConfigPath(); path != "" {
		cmd.Printf("Global config: %s\n", path)
	}
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("Project dir: %s\n", dir)
	}
	cmd.Printf("Market data: %s\n", cfg.Reference.MarketData)
	cmd.Printf("Country data: %s (mismanaged unit: %s)\n", cfg.Reference.CountryData, cfg.Reference.MismanagedUnit)
	cmd.Printf("Default scenario: %s\n", cfg.Impact.Scenario)
	cmd.Printf("Roadmap weeks: %d to %d (default %d)\n", cfg.Roadmap.Min, cfg.Roadmap.Max, cfg.Roadmap.Default)
	cmd.Printf("Narrative provider: %s\n", cfg.Narrative.Provider)
	cmd.Printf("Output format: %s\n", cfg.Output.DefaultFormat)
}
