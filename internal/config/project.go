package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/regenesis/internal/logging"
)

// projectDirName is the project-local configuration directory.
const projectDirName = ".regenesis"

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .regenesis directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. REGENESIS_PROJECT_DIR env var
//  3. the nearest .regenesis directory in startDir or one of its parents
//
// Returns an absolute path, or empty string if no project was found. The
// directory is never created here.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	dir := toAbsPath(ctx, startDir)
	for {
		candidate := filepath.Join(dir, projectDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir creates a Config by loading global config then merging
// the project-local config.yaml and .env on top. Environment variables are
// re-applied afterwards so they keep precedence over both files. If
// projectDir is empty, behaves identically to New().
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()

	if projectDir == "" {
		return cfg
	}

	LoadDotEnv(filepath.Join(projectDir, ".env"))

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		cfg.ApplyEnvOverrides()
		return cfg
	}

	merged := New()
	if err := MergeYAML(merged, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global settings")
		cfg.ApplyEnvOverrides()
		return cfg
	}

	merged.ApplyEnvOverrides()
	return merged
}

// toAbsProjectDir converts dir to an absolute path and appends ".regenesis"
// unless the path already ends with it.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs := toAbsPath(ctx, dir)
	if filepath.Base(abs) == projectDirName {
		return abs
	}
	return filepath.Join(abs, projectDirName)
}

func toAbsPath(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		return dir
	}
	return abs
}
