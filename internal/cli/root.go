package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/regenesis/internal/config"
	"github.com/rshade/regenesis/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug       bool
	marketData  string
	countryData string
	projectDir  string
}

// NewRootCmd creates the root Cobra command for the regenesis CLI.
// It resolves the project directory, builds the layered configuration, wires
// up logging and tracing, and registers the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		flags     globalFlags
		logResult *logging.LogPathResult
	)

	cmd := &cobra.Command{
		Use:           "regenesis",
		Short:         "Recycling venture feasibility scorer",
		Long:          "ReGenesis: score the feasibility of a plastic recycling venture and plan its first weeks",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadConfig(cmd, flags)
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&flags.marketData, "market-data", "", "path to the market price table (.csv, .tsv or .xlsx)")
	pf.StringVar(&flags.countryData, "country-data", "", "path to the country waste table (.csv, .tsv or .xlsx)")
	pf.StringVar(&flags.projectDir, "project-dir", "",
		"project directory holding .regenesis/config.yaml (default: nearest .regenesis above the working directory)")

	cmd.AddCommand(
		NewAssessCmd(),
		NewRoadmapCmd(),
		newReferenceCmd(),
		NewServeCmd(),
		newConfigCmd(),
	)

	return cmd
}

// loadConfig builds the layered configuration for this invocation and
// installs it as the global config. Flags are the last layer.
func loadConfig(cmd *cobra.Command, flags globalFlags) {
	ctx := cmd.Context()

	startDir, err := os.Getwd()
	if err != nil {
		startDir = ""
	}
	projectDir := config.ResolveProjectDir(ctx, flags.projectDir, startDir)
	config.SetResolvedProjectDir(projectDir)

	cfg := config.NewWithProjectDir(ctx, projectDir)
	if flags.marketData != "" {
		cfg.Reference.MarketData = flags.marketData
	}
	if flags.countryData != "" {
		cfg.Reference.CountryData = flags.countryData
	}
	config.SetGlobalConfig(cfg)
}

const rootCmdExample = `  # Score 500 kg of PET collected in India
  regenesis assess --waste-type PET --quantity 500 --country India

  # Same, as JSON with an AI narrative
  regenesis assess --waste-type PET --quantity 500 --country India --narrative --output json

  # Score every row of a spreadsheet, best first
  regenesis assess --batch ventures.xlsx --sort score --limit 10

  # Export a 16 week roadmap as HTML
  regenesis roadmap --waste-type HDPE --quantity 1200 --country Brazil --weeks 16 --format html --out plan.html

  # List the known waste categories
  regenesis reference categories

  # Start the HTTP API
  regenesis serve --addr :8080

  # Initialize configuration
  regenesis config init`

// newReferenceCmd creates the reference command group.
func newReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reference", Short: "Inspect the loaded reference tables"}
	cmd.AddCommand(
		NewReferenceCategoriesCmd(),
		NewReferenceCountriesCmd(),
		NewReferenceValidateCmd(),
	)
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
