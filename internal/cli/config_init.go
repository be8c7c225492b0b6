package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/regenesis/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// Inside a project (a .regenesis directory above the working directory, or one
// named by --project-dir or REGENESIS_PROJECT_DIR) it writes the project overlay
// and its .gitignore. Otherwise, or with --global, it writes the global
// ~/.regenesis/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates project-local configuration at
$PROJECT/.regenesis/config.yaml with a .gitignore that keeps the narrative
cache, logs and .env out of version control.
Use --global to force global configuration initialization even inside a project.`,
		Example: `  # Create project-local configuration for the project in ./venture
  regenesis config init --project-dir ./venture

  # Create global configuration
  regenesis config init --global

  # Create configuration, overwriting existing
  regenesis config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}

			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")

	return cmd
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")

	if err := checkExisting(configPath, force); err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Never overwrites an existing .gitignore.
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to keep cache, logs and .env out of version control\n")
	}

	return nil
}

// initGlobalConfig creates global config at ~/.regenesis/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(dir, "config.yaml")

	if err := checkExisting(configPath, force); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", configPath)

	return nil
}

func checkExisting(configPath string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(configPath)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", configPath, err)
	}
	return nil
}
