package pagination

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rshade/regenesis/internal/engine"
)

// Sort fields.
const (
	FieldScore     = "score"
	FieldQuantity  = "quantity"
	FieldRevenue   = "revenue"
	FieldCO2       = "co2"
	FieldWasteType = "waste_type"
	FieldCountry   = "country"
	FieldIndex     = "index"
)

// ValidFields lists the accepted sort fields in display order.
func ValidFields() []string {
	return []string{FieldScore, FieldQuantity, FieldRevenue, FieldCO2, FieldWasteType, FieldCountry, FieldIndex}
}

// IsValidField reports whether field can be sorted on.
func IsValidField(field string) bool {
	return slices.Contains(ValidFields(), field)
}

// Sort returns a sorted copy of items. Failed items always sort last, in
// input order. An unknown field returns a copy in input order.
func Sort(items []engine.BatchItem, field, order string) []engine.BatchItem {
	sorted := slices.Clone(items)
	if !IsValidField(field) {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b engine.BatchItem) int {
		switch {
		case a.Assessment == nil && b.Assessment == nil:
			return cmp.Compare(a.Index, b.Index)
		case a.Assessment == nil:
			return 1
		case b.Assessment == nil:
			return -1
		}
		c := compareField(a, b, field)
		if order == SortOrderDesc {
			c = -c
		}
		return c
	})
	return sorted
}

func compareField(a, b engine.BatchItem, field string) int {
	fa, fb := a.Assessment.Feasibility, b.Assessment.Feasibility
	switch field {
	case FieldScore:
		return cmp.Compare(fa.FeasibilityScore, fb.FeasibilityScore)
	case FieldQuantity:
		return cmp.Compare(fa.QuantityKg, fb.QuantityKg)
	case FieldRevenue:
		return cmp.Compare(a.Assessment.Impact.MonthlyRevenue, b.Assessment.Impact.MonthlyRevenue)
	case FieldCO2:
		return cmp.Compare(a.Assessment.Impact.CO2SavedKg, b.Assessment.Impact.CO2SavedKg)
	case FieldWasteType:
		return strings.Compare(fa.WasteType, fb.WasteType)
	case FieldCountry:
		return strings.Compare(fa.Country, fb.Country)
	default:
		return cmp.Compare(a.Index, b.Index)
	}
}

// Apply sorts items per params.Sort and cuts the configured window. params
// must already be validated.
func Apply(items []engine.BatchItem, params Params) []engine.BatchItem {
	out := items
	if params.Sort != "" {
		field, order, err := ParseSort(params.Sort)
		if err == nil {
			out = Sort(items, field, order)
		}
	}
	start, end := params.Window(len(out))
	return out[start:end]
}
