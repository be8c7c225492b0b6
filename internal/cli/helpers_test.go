package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/cli"
	"github.com/rshade/regenesis/internal/config"
)

const (
	testMarketCSV = `category,avg_price_per_kg_usd,demand_score_1_to_10
PET,2,8
HDPE,0.6,7
`
	testCountryCSV = `Country,Mismanaged Plastic Waste (metric tonnes)
Testland,50
Bigland,200
`
)

// fixture holds the paths of the reference tables written for a test.
type fixture struct {
	dir     string
	market  string
	country string
}

// dataArgs returns the global flags pointing at the fixture tables.
func (f fixture) dataArgs(args ...string) []string {
	return append(args, "--market-data", f.market, "--country-data", f.country)
}

// setupCLITest isolates config and logging from the developer's machine and
// writes a small pair of reference tables.
func setupCLITest(t *testing.T) fixture {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvNarrativeCache, "false")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvOutputFormat, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})

	dir := t.TempDir()
	f := fixture{
		dir:     dir,
		market:  filepath.Join(dir, "market.csv"),
		country: filepath.Join(dir, "country.csv"),
	}
	require.NoError(t, os.WriteFile(f.market, []byte(testMarketCSV), 0o600))
	require.NoError(t, os.WriteFile(f.country, []byte(testCountryCSV), 0o600))
	return f
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
