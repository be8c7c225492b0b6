package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/config"
)

func TestReferenceCategories(t *testing.T) {
	f := setupCLITest(t)

	out, _, err := runCLI(t, f.dataArgs("reference", "categories")...)
	require.NoError(t, err)
	assert.Contains(t, out, "WASTE CATEGORIES")
	assert.Contains(t, out, "  HDPE\n")
	assert.Contains(t, out, "  PET\n")
	assert.Contains(t, out, "2 total")
}

func TestReferenceCountries_JSON(t *testing.T) {
	f := setupCLITest(t)

	out, _, err := runCLI(t, f.dataArgs("reference", "countries", "-o", "json")...)
	require.NoError(t, err)

	var got struct {
		Items []string `json:"items"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"bigland", "testland"}, got.Items)
	assert.Equal(t, 2, got.Count)
}

func TestReferenceValidate(t *testing.T) {
	f := setupCLITest(t)

	t.Run("valid tables", func(t *testing.T) {
		out, _, err := runCLI(t, f.dataArgs("reference", "validate")...)
		require.NoError(t, err)
		assert.Contains(t, out, "(2 categories)")
		assert.Contains(t, out, "max mismanaged 200.00 tonnes")
		assert.Contains(t, out, "Reference data is valid")
	})

	t.Run("unit warning", func(t *testing.T) {
		t.Setenv(config.EnvMismanagedUnit, "percent")
		out, _, err := runCLI(t, f.dataArgs("reference", "validate", "-o", "json")...)
		require.NoError(t, err)

		var got struct {
			MismanagedUnit string   `json:"mismanaged_unit"`
			Warnings       []string `json:"warnings"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "percent", got.MismanagedUnit)
		require.Len(t, got.Warnings, 1)
		assert.Contains(t, got.Warnings[0], "exceed 100")
	})

	t.Run("unusable country table", func(t *testing.T) {
		bad := filepath.Join(f.dir, "bad_country.csv")
		require.NoError(t, os.WriteFile(bad, []byte("Country,Mismanaged\nTestland,12%\n"), 0o600))

		_, _, err := runCLI(t, "reference", "validate", "--market-data", f.market, "--country-data", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "country")
	})
}
