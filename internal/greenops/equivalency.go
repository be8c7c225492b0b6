package greenops

import (
	"fmt"
	"math"
)

type factor struct {
	kind    Kind
	divisor float64
	label   string
}

// factors are listed in display priority order.
//
//nolint:gochecknoglobals // Static lookup table.
var factors = []factor{
	{KindMilesDriven, MilesDrivenFactor, "car miles avoided"},
	{KindSmartphonesCharged, SmartphoneChargeFactor, "smartphone charges"},
	{KindTreeSeedlings, TreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{KindHomeDays, HomeDayFactor, "days of home electricity"},
}

// Calculate converts a CO2 saving in kilograms into equivalencies.
//
// Savings below MinEquivalencyKg produce an empty Output with no error.
// Negative input yields ErrNegativeValue; NaN or Inf yields ErrCalculationOverflow.
func Calculate(co2SavedKg float64) (Output, error) {
	if math.IsNaN(co2SavedKg) || math.IsInf(co2SavedKg, 0) {
		return Output{IsEmpty: true}, ErrCalculationOverflow
	}
	if co2SavedKg < 0 {
		return Output{IsEmpty: true}, ErrNegativeValue
	}
	if co2SavedKg < MinEquivalencyKg {
		return Output{CO2SavedKg: co2SavedKg, IsEmpty: true}, nil
	}

	out := Output{
		CO2SavedKg:   co2SavedKg,
		Equivalences: make([]Equivalency, 0, len(factors)),
	}
	for _, f := range factors {
		v := co2SavedKg / f.divisor
		if math.IsInf(v, 0) {
			return Output{IsEmpty: true}, ErrCalculationOverflow
		}
		out.Equivalences = append(out.Equivalences, Equivalency{
			Kind:      f.kind,
			Value:     v,
			Formatted: formatEquivalency(v),
			Label:     f.label,
		})
	}

	out.DisplayText = fmt.Sprintf("Equivalent to avoiding ~%s car miles or ~%s smartphone charges",
		out.Equivalences[0].Formatted, out.Equivalences[1].Formatted)
	return out, nil
}

func formatEquivalency(v float64) string {
	if v >= MillionThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
