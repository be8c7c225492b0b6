// Package scoring implements the feasibility model: a 0-100 composite score
// built from market strength, batch scale and country-level environmental
// pressure, plus the status tier derived from it.
//
// All functions are pure. Nothing here reads files or holds state; callers
// pass in the reference rows they looked up.
package scoring

import "fmt"

// Model defaults.
const (
	// DefaultUSDToLocalRate converts USD prices to the local currency.
	DefaultUSDToLocalRate = 80.0

	// DefaultLocalCurrency labels market values.
	DefaultLocalCurrency = "INR"

	// DefaultScaleDivisor is the quantity (kg) that adds +1 to the scale factor.
	DefaultScaleDivisor = 500.0

	// DefaultEnvWeight multiplies the normalized mismanaged value.
	DefaultEnvWeight = 3.0

	// MinQuantityKg is the smallest accepted batch.
	MinQuantityKg = 1.0

	// MaxQuantityKg is the largest accepted batch (one million tonnes).
	MaxQuantityKg = 1e9

	// MaxScore caps the feasibility score.
	MaxScore = 100.0
)

// Status tier thresholds. Boundaries are inclusive-low.
const (
	ThresholdModerate = 30.0
	ThresholdHigh     = 70.0
)

// Params are the tunable constants of the model.
type Params struct {
	USDToLocalRate float64 `json:"usd_to_local_rate" yaml:"usd_to_local_rate"`
	LocalCurrency  string  `json:"local_currency"    yaml:"local_currency"`
	ScaleDivisor   float64 `json:"scale_divisor"     yaml:"scale_divisor"`
	EnvWeight      float64 `json:"env_weight"        yaml:"env_weight"`
}

// DefaultParams returns the canonical model constants.
func DefaultParams() Params {
	return Params{
		USDToLocalRate: DefaultUSDToLocalRate,
		LocalCurrency:  DefaultLocalCurrency,
		ScaleDivisor:   DefaultScaleDivisor,
		EnvWeight:      DefaultEnvWeight,
	}
}

// Validate rejects parameter sets that would make the formula meaningless.
func (p Params) Validate() error {
	if p.USDToLocalRate <= 0 {
		return fmt.Errorf("%w: usd_to_local_rate must be positive, got %v", ErrInvalidParams, p.USDToLocalRate)
	}
	if p.ScaleDivisor <= 0 {
		return fmt.Errorf("%w: scale_divisor must be positive, got %v", ErrInvalidParams, p.ScaleDivisor)
	}
	if p.EnvWeight < 0 {
		return fmt.Errorf("%w: env_weight cannot be negative, got %v", ErrInvalidParams, p.EnvWeight)
	}
	return nil
}
