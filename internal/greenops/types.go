// Package greenops expresses kilograms of CO2 kept out of the atmosphere by a
// recycling operation as everyday equivalencies (miles not driven, phones
// charged, tree seedlings, days of home electricity).
package greenops

import "fmt"

// Kind identifies an equivalency.
type Kind int

const (
	KindMilesDriven Kind = iota
	KindSmartphonesCharged
	KindTreeSeedlings
	KindHomeDays
)

// String returns the stable name used in JSON and logs.
func (k Kind) String() string {
	switch k {
	case KindMilesDriven:
		return "miles_driven"
	case KindSmartphonesCharged:
		return "smartphones_charged"
	case KindTreeSeedlings:
		return "tree_seedlings"
	case KindHomeDays:
		return "home_days"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Equivalency is one computed comparison.
type Equivalency struct {
	Kind      Kind    `json:"kind"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Label     string  `json:"label"`
}

// Output is the full set of equivalencies for one CO2 amount.
type Output struct {
	CO2SavedKg   float64       `json:"co2_saved_kg"`
	Equivalences []Equivalency `json:"equivalences,omitempty"`
	DisplayText  string        `json:"display_text,omitempty"`
	IsEmpty      bool          `json:"is_empty"`
}
