// Package impact projects the business and environmental outcomes of a
// scored recycling venture: revenue over six months, CO2 avoided, jobs and
// the mass of mismanaged plastic diverted.
package impact

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rshade/regenesis/internal/greenops"
	"github.com/rshade/regenesis/internal/refdata"
	"github.com/rshade/regenesis/internal/scoring"
)

// Projection defaults.
const (
	DefaultWorkingDaysPerMonth = 22.0
	DefaultCO2Factor           = 2.5 // kg CO2 avoided per kg processed
	DefaultKgPerJob            = 1000.0
	ProjectionMonths           = 6
)

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrNegativeInput is returned when any input is negative or not finite.
	ErrNegativeInput = constError("impact input must be a non-negative finite number")

	// ErrUnknownScenario is returned by ParseScenario.
	ErrUnknownScenario = constError("unknown scenario")

	// ErrInvalidParams is returned by Params.Validate.
	ErrInvalidParams = constError("invalid impact parameters")
)

// Params are the projection constants.
type Params struct {
	WorkingDaysPerMonth float64      `json:"working_days_per_month" yaml:"working_days_per_month"`
	CO2Factor           float64      `json:"co2_factor"             yaml:"co2_factor"`
	KgPerJob            float64      `json:"kg_per_job"             yaml:"kg_per_job"`
	MismanagedUnit      refdata.Unit `json:"mismanaged_unit"        yaml:"mismanaged_unit"`
}

// DefaultParams returns the standard projection constants.
func DefaultParams() Params {
	return Params{
		WorkingDaysPerMonth: DefaultWorkingDaysPerMonth,
		CO2Factor:           DefaultCO2Factor,
		KgPerJob:            DefaultKgPerJob,
		MismanagedUnit:      refdata.UnitTonnes,
	}
}

// Validate checks that every constant is usable.
func (p Params) Validate() error {
	if p.WorkingDaysPerMonth <= 0 {
		return fmt.Errorf("%w: working_days_per_month must be positive", ErrInvalidParams)
	}
	if p.CO2Factor < 0 {
		return fmt.Errorf("%w: co2_factor cannot be negative", ErrInvalidParams)
	}
	if p.KgPerJob <= 0 {
		return fmt.Errorf("%w: kg_per_job must be positive", ErrInvalidParams)
	}
	switch p.MismanagedUnit {
	case refdata.UnitTonnes, refdata.UnitPercent:
	default:
		return fmt.Errorf("%w: mismanaged_unit %q", ErrInvalidParams, p.MismanagedUnit)
	}
	return nil
}

// Input carries the scoring outputs the projection needs.
type Input struct {
	MarketValue          float64
	QuantityKg           float64
	MismanagedValue      float64
	MismanagedNormalized float64
	Scenario             Scenario
}

// FromFeasibility builds an Input from a scoring result.
func FromFeasibility(r scoring.Result, s Scenario) Input {
	return Input{
		MarketValue:          r.MarketValue,
		QuantityKg:           r.QuantityKg,
		MismanagedValue:      r.MismanagedValue,
		MismanagedNormalized: r.MismanagedNormalized,
		Scenario:             s,
	}
}

// Estimate is the projected impact of one venture.
type Estimate struct {
	MonthlyRevenue     float64         `json:"monthly_revenue"`
	SixMonthRevenue    float64         `json:"six_month_revenue"`
	Scenario           Scenario        `json:"scenario"`
	ScenarioMultiplier float64         `json:"scenario_multiplier"`
	ScenarioRevenue    float64         `json:"scenario_revenue"`
	CO2SavedKg         float64         `json:"co2_saved_kg"`
	JobsCreated        int             `json:"jobs_created"`
	DivertedShare      float64         `json:"diverted_share"`
	// PlasticDivertedKg is QuantityKg * DivertedShare. The share is the
	// mismanaged percentage / 100 for the percent unit and the normalized
	// mismanaged value for tonnes.
	PlasticDivertedKg  float64         `json:"plastic_diverted_kg"`
	Equivalencies      greenops.Output `json:"equivalencies"`
}

// Project computes the impact estimate for in.
func Project(in Input, p Params) (Estimate, error) {
	if err := p.Validate(); err != nil {
		return Estimate{}, err
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"market_value", in.MarketValue},
		{"quantity_kg", in.QuantityKg},
		{"mismanaged_value", in.MismanagedValue},
		{"mismanaged_normalized", in.MismanagedNormalized},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return Estimate{}, fmt.Errorf("%w: %s=%v", ErrNegativeInput, f.name, f.value)
		}
	}

	scenario := in.Scenario
	if scenario == "" {
		scenario = DefaultScenario
	}
	multiplier := scenario.Multiplier()
	if multiplier == 0 {
		return Estimate{}, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
	}

	monthly := decimal.NewFromFloat(in.MarketValue).Mul(decimal.NewFromFloat(p.WorkingDaysPerMonth))
	sixMonth := monthly.Mul(decimal.NewFromInt(ProjectionMonths))
	adjusted := sixMonth.Mul(decimal.NewFromFloat(multiplier))

	share := divertedShare(in, p.MismanagedUnit)
	co2 := in.QuantityKg * p.CO2Factor

	equiv, err := greenops.Calculate(co2)
	if err != nil {
		return Estimate{}, fmt.Errorf("computing equivalencies: %w", err)
	}

	return Estimate{
		MonthlyRevenue:     monthly.Round(2).InexactFloat64(),
		SixMonthRevenue:    sixMonth.Round(2).InexactFloat64(),
		Scenario:           scenario,
		ScenarioMultiplier: multiplier,
		ScenarioRevenue:    adjusted.Round(2).InexactFloat64(),
		CO2SavedKg:         co2,
		JobsCreated:        JobsCreated(in.QuantityKg, p),
		DivertedShare:      share,
		PlasticDivertedKg:  decimal.NewFromFloat(in.QuantityKg * share).Round(2).InexactFloat64(),
		Equivalencies:      equiv,
	}, nil
}

// JobsCreated estimates monthly processing jobs, never fewer than one.
func JobsCreated(quantityKg float64, p Params) int {
	if p.KgPerJob <= 0 {
		return 1
	}
	jobs := math.Ceil(quantityKg * p.WorkingDaysPerMonth / p.KgPerJob)
	return max(1, int(jobs))
}

// divertedShare is the fraction of the batch counted as diverted from
// mismanaged disposal, in [0,1].
func divertedShare(in Input, unit refdata.Unit) float64 {
	var share float64
	switch unit {
	case refdata.UnitPercent:
		share = in.MismanagedValue / 100
	default:
		share = in.MismanagedNormalized
	}
	return min(1, max(0, share))
}
