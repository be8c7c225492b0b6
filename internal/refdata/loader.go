package refdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Canonical market column names.
const (
	ColumnCategory    = "category"
	ColumnPrice       = "avg_price_per_kg_usd"
	ColumnDemandScore = "demand_score_1_to_10"
)

// LoadMarketData reads the market-price table at path (.csv, .tsv or .xlsx).
//
// Header cells are trimmed and spreadsheet-export artifacts (blank or
// "Unnamed..." headers) are ignored. Rows with a blank category, an
// unparseable price or demand score, or a non-positive price are dropped.
// Any failure, including an empty result, is returned as *DataLoadError.
func LoadMarketData(path string) (MarketTable, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return MarketTable{}, &DataLoadError{Table: TableMarket, Path: path, Err: err}
	}
	if len(rows) == 0 {
		return MarketTable{}, &DataLoadError{Table: TableMarket, Path: path, Err: ErrNoUsableRows}
	}

	cols := marketColumns(rows[0])
	for _, name := range []string{ColumnCategory, ColumnPrice, ColumnDemandScore} {
		if _, ok := cols[name]; !ok {
			return MarketTable{}, &DataLoadError{
				Table: TableMarket,
				Path:  path,
				Err:   fmt.Errorf("%w: %s", ErrMissingColumn, name),
			}
		}
	}

	entries := make([]MarketEntry, 0, len(rows)-1)
	dropped := 0
	for _, row := range rows[1:] {
		category := cell(row, cols[ColumnCategory])
		price, priceOK := parseNumber(cell(row, cols[ColumnPrice]))
		demand, demandOK := parseNumber(cell(row, cols[ColumnDemandScore]))
		if category == "" || !priceOK || !demandOK || price <= 0 {
			dropped++
			continue
		}
		entries = append(entries, MarketEntry{
			Category:         category,
			AvgPricePerKgUSD: price,
			DemandScore:      demand,
		})
	}

	table := NewMarketTable(entries)
	log.Debug().
		Str("component", "refdata").
		Str("table", TableMarket).
		Str("path", path).
		Int("rows", table.Len()).
		Int("dropped", dropped).
		Msg("market data loaded")

	if table.Len() == 0 {
		return MarketTable{}, &DataLoadError{Table: TableMarket, Path: path, Err: ErrNoUsableRows}
	}
	return table, nil
}

// marketColumns maps canonical column names to their index in header.
func marketColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if isExportArtifact(name) {
			continue
		}
		key := strings.ToLower(name)
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}
	return cols
}

func isExportArtifact(header string) bool {
	return header == "" || strings.HasPrefix(header, "Unnamed")
}

// LoadCountryData reads the country table at path (.csv, .tsv or .xlsx).
//
// The first row is a header whose text is ignored. Columns with no data are
// discarded and the first two remaining columns are taken as country and
// mismanaged value. Country names are normalized; rows with a blank country
// or a mismanaged value that is not a plain non-negative number (for example
// "12%") are dropped. Any failure, including an empty result, is returned as
// *DataLoadError.
func LoadCountryData(path string) (CountryTable, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return CountryTable{}, &DataLoadError{Table: TableCountry, Path: path, Err: err}
	}
	if len(rows) < 2 {
		return CountryTable{}, &DataLoadError{Table: TableCountry, Path: path, Err: ErrNoUsableRows}
	}

	data := rows[1:]
	cols := populatedColumns(data)
	if len(cols) < 2 {
		return CountryTable{}, &DataLoadError{
			Table: TableCountry,
			Path:  path,
			Err:   fmt.Errorf("%w: need country and mismanaged columns, found %d", ErrMissingColumn, len(cols)),
		}
	}
	countryCol, valueCol := cols[0], cols[1]

	entries := make([]CountryEntry, 0, len(data))
	dropped := 0
	for _, row := range data {
		country := NormalizeCountry(cell(row, countryCol))
		value, ok := parseNumber(cell(row, valueCol))
		if country == "" || !ok || value < 0 {
			dropped++
			continue
		}
		entries = append(entries, CountryEntry{Country: country, Mismanaged: value})
	}

	table := NewCountryTable(entries)
	log.Debug().
		Str("component", "refdata").
		Str("table", TableCountry).
		Str("path", path).
		Int("rows", table.Len()).
		Int("dropped", dropped).
		Float64("max_mismanaged", table.MaxMismanaged()).
		Msg("country data loaded")

	if table.Len() == 0 {
		return CountryTable{}, &DataLoadError{Table: TableCountry, Path: path, Err: ErrNoUsableRows}
	}
	return table, nil
}

// populatedColumns returns, in order, the indexes of columns holding at least
// one non-blank cell.
func populatedColumns(rows [][]string) []int {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}

	var cols []int
	for c := range width {
		for _, r := range rows {
			if cell(r, c) != "" {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}

// parseNumber accepts plain decimal numbers only. Percent signs, thousands
// separators, NaN and Inf are all treated as missing.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
