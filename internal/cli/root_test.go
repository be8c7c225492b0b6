package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/cli"
)

func TestNewRootCmd(t *testing.T) {
	cmd := cli.NewRootCmd("1.2.3")
	require.NotNil(t, cmd)
	assert.Equal(t, "regenesis", cmd.Use)
	assert.Equal(t, "1.2.3", cmd.Version)

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"assess", "roadmap", "reference", "serve", "config"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"debug", "market-data", "country-data", "project-dir"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCmd_Help(t *testing.T) {
	setupCLITest(t)

	out, _, err := runCLI(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "regenesis assess --waste-type PET")
}

func TestAssessCmd_Help(t *testing.T) {
	setupCLITest(t)

	out, _, err := runCLI(t, "assess", "--help")
	require.NoError(t, err)
	for _, flag := range []string{"--waste-type", "--quantity", "--country", "--scenario", "--weeks",
		"--narrative", "--explain", "--output", "--batch", "--sort", "--limit"} {
		assert.Contains(t, out, flag)
	}
}
