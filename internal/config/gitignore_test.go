package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/config"
)

func TestEnsureGitignore_CreatesNewFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created, "should report file was created")

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))
	assert.Contains(t, string(data), "cache/")
	assert.Contains(t, string(data), ".env")
}

func TestEnsureGitignore_DoesNotOverwriteExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gitignorePath := filepath.Join(dir, ".gitignore")

	customContent := "# my custom gitignore\nnode_modules/\n"
	require.NoError(t, os.WriteFile(gitignorePath, []byte(customContent), 0o644))

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created, "should report file was NOT created")

	data, readErr := os.ReadFile(gitignorePath)
	require.NoError(t, readErr)
	assert.Equal(t, customContent, string(data), "existing content must be preserved")
}

func TestEnsureGitignore_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	nestedDir := filepath.Join(t.TempDir(), "sub", "deep", ".regenesis")

	created, err := config.EnsureGitignore(nestedDir)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, filepath.Join(nestedDir, ".gitignore"))
}
