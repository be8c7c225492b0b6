package refdata

import (
	"fmt"
	"strings"
)

// Unit is the declared unit of the mismanaged column.
type Unit string

const (
	// UnitTonnes means raw metric tonnes of mismanaged waste per country.
	UnitTonnes Unit = "tonnes"
	// UnitPercent means a 0-100 share of waste that is mismanaged.
	UnitPercent Unit = "percent"
)

// ErrUnknownUnit is returned by ParseUnit.
const ErrUnknownUnit = constError("unknown mismanaged unit")

// ParseUnit parses "tonnes" or "percent" (case-insensitive, with a few aliases).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tonnes", "tons", "t", "metric_tonnes":
		return UnitTonnes, nil
	case "percent", "pct", "%":
		return UnitPercent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}

// CheckUnit compares the declared unit against the loaded values and returns
// human-readable warnings when they disagree. It never fails: the data is
// still usable because scoring normalizes by the table maximum.
func (t CountryTable) CheckUnit(u Unit) []string {
	if t.Len() == 0 {
		return nil
	}

	var warnings []string
	switch u {
	case UnitPercent:
		over := 0
		for _, e := range t.entries {
			if e.Mismanaged > 100 {
				over++
			}
		}
		if over > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"mismanaged unit is percent but %d of %d countries exceed 100", over, t.Len()))
		}
	case UnitTonnes:
		if t.max <= 100 {
			warnings = append(warnings, fmt.Sprintf(
				"mismanaged unit is tonnes but the largest value is %.2f; the column may hold percentages", t.max))
		}
	}
	return warnings
}
