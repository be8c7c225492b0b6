// Package refdata loads the two reference tables the feasibility engine reads:
// market prices per waste category and a per-country mismanaged-waste
// indicator. Tables are immutable once loaded.
package refdata

import (
	"sort"
	"strings"
)

// MarketEntry is one row of the market-price table.
type MarketEntry struct {
	Category         string  `json:"category"`
	AvgPricePerKgUSD float64 `json:"avg_price_per_kg_usd"`
	DemandScore      float64 `json:"demand_score_1_to_10"`
}

// CountryEntry is one row of the country table. Country is normalized with
// NormalizeCountry.
type CountryEntry struct {
	Country    string  `json:"country"`
	Mismanaged float64 `json:"mismanaged"`
}

// MarketTable is the loaded market-price table, keyed by category.
type MarketTable struct {
	entries []MarketEntry
	index   map[string]int
}

// NewMarketTable builds a table from entries. Later duplicates of a category
// are ignored.
func NewMarketTable(entries []MarketEntry) MarketTable {
	t := MarketTable{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, dup := t.index[e.Category]; dup {
			continue
		}
		t.index[e.Category] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t
}

// Lookup returns the entry for category using exact string equality.
func (t MarketTable) Lookup(category string) (MarketEntry, bool) {
	i, ok := t.index[category]
	if !ok {
		return MarketEntry{}, false
	}
	return t.entries[i], true
}

// Len returns the number of categories.
func (t MarketTable) Len() int { return len(t.entries) }

// Entries returns a copy of the rows in load order.
func (t MarketTable) Entries() []MarketEntry {
	return append([]MarketEntry(nil), t.entries...)
}

// Categories returns the category names sorted alphabetically.
func (t MarketTable) Categories() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Category)
	}
	sort.Strings(out)
	return out
}

// CountryTable is the loaded country table, keyed by normalized country name.
type CountryTable struct {
	entries []CountryEntry
	index   map[string]int
	max     float64
}

// NewCountryTable builds a table from entries, normalizing country names.
// Later duplicates are ignored.
func NewCountryTable(entries []CountryEntry) CountryTable {
	t := CountryTable{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		e.Country = NormalizeCountry(e.Country)
		if _, dup := t.index[e.Country]; dup {
			continue
		}
		t.index[e.Country] = len(t.entries)
		t.entries = append(t.entries, e)
		if e.Mismanaged > t.max {
			t.max = e.Mismanaged
		}
	}
	return t
}

// Lookup finds a country by exact equality after normalizing name.
func (t CountryTable) Lookup(name string) (CountryEntry, bool) {
	i, ok := t.index[NormalizeCountry(name)]
	if !ok {
		return CountryEntry{}, false
	}
	return t.entries[i], true
}

// MaxMismanaged is the largest mismanaged value in the table, 0 when empty.
func (t CountryTable) MaxMismanaged() float64 { return t.max }

// Len returns the number of countries.
func (t CountryTable) Len() int { return len(t.entries) }

// Entries returns a copy of the rows in load order.
func (t CountryTable) Entries() []CountryEntry {
	return append([]CountryEntry(nil), t.entries...)
}

// Countries returns the normalized country names sorted alphabetically.
func (t CountryTable) Countries() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Country)
	}
	sort.Strings(out)
	return out
}

// NormalizeCountry lower-cases and trims a country name.
func NormalizeCountry(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
