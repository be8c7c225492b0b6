package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/regenesis/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after every layer has been applied.
func NewConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration this invocation would use: defaults, the global
file, the project overlay, .env, REGENESIS_* variables and flags, merged in
that order.`,
		Example: `  # Show the effective configuration as YAML
  regenesis config show

  # Show it as JSON
  regenesis config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml or json")

	return cmd
}

func runConfigShow(cmd *cobra.Command, output string) error {
	cfg := config.GetGlobalConfig()

	switch output {
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case outputJSON:
		return renderJSON(cmd.OutOrStdout(), cfg)
	default:
		return fmt.Errorf("unsupported output format %q (valid: yaml, json)", output)
	}
}
