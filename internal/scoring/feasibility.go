package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rshade/regenesis/internal/refdata"
)

// Input is a single feasibility request.
type Input struct {
	WasteType  string  `json:"waste_type"`
	QuantityKg float64 `json:"quantity_kg"`
	Country    string  `json:"country"`
}

// Result holds the score and every intermediate metric that produced it.
type Result struct {
	WasteType            string  `json:"waste_type"`
	Country              string  `json:"country"`
	CountryMatched       bool    `json:"country_matched"`
	QuantityKg           float64 `json:"quantity_kg"`
	PricePerKgUSD        float64 `json:"price_per_kg_usd"`
	DemandScore          float64 `json:"demand_score"`
	Currency             string  `json:"currency"`
	MarketValue          float64 `json:"market_value"`
	ScaleFactor          float64 `json:"scale_factor"`
	MismanagedValue      float64 `json:"mismanaged_value"`
	MismanagedNormalized float64 `json:"mismanaged_normalized"`
	MismanagedFactor     float64 `json:"mismanaged_factor"`
	RawScore             float64 `json:"raw_score"`
	FeasibilityScore     float64 `json:"feasibility_score"`
	Status               Status  `json:"status"`
}

// ComputeFeasibility scores a batch of quantityKg of the given market
// category. country may be nil when the country is unknown; the mismanaged
// value then falls back to 0. maxMismanaged is the largest mismanaged value
// across all loaded countries and bounds the environmental factor.
func ComputeFeasibility(market refdata.MarketEntry, country *refdata.CountryEntry, quantityKg, maxMismanaged float64, p Params) Result {
	r := Result{
		WasteType:     market.Category,
		QuantityKg:    quantityKg,
		PricePerKgUSD: market.AvgPricePerKgUSD,
		DemandScore:   market.DemandScore,
		Currency:      p.LocalCurrency,
	}
	if country != nil {
		r.Country = country.Country
		r.CountryMatched = true
		r.MismanagedValue = country.Mismanaged
	}

	r.MarketValue = round2(quantityKg * market.AvgPricePerKgUSD * p.USDToLocalRate)
	r.ScaleFactor = 1 + quantityKg/p.ScaleDivisor
	r.MismanagedNormalized = Normalize(r.MismanagedValue, maxMismanaged)
	r.MismanagedFactor = 1 + r.MismanagedNormalized*p.EnvWeight
	r.RawScore = market.AvgPricePerKgUSD * market.DemandScore * r.ScaleFactor * r.MismanagedFactor
	r.FeasibilityScore = clampScore(round2(r.RawScore))
	r.Status = ComputeStatus(r.FeasibilityScore)
	return r
}

// Normalize divides value by maxValue, returning 0 when maxValue is not
// positive. The result is clamped to [0,1].
func Normalize(value, maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	return min(1, max(0, value/maxValue))
}

// Assess validates in against the snapshot and scores it. Unknown waste types
// and bad quantities are errors; an unknown country is not.
func Assess(snap *refdata.Snapshot, in Input, p Params) (Result, error) {
	if snap == nil {
		return Result{}, refdata.ErrNotLoaded
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if err := ValidateQuantity(in.QuantityKg); err != nil {
		return Result{}, err
	}

	market, ok := snap.Market.Lookup(in.WasteType)
	if !ok {
		return Result{}, &UnknownCategoryError{Category: in.WasteType, Known: snap.Market.Categories()}
	}

	var country *refdata.CountryEntry
	if entry, found := snap.Country.Lookup(in.Country); found {
		country = &entry
	}

	r := ComputeFeasibility(market, country, in.QuantityKg, snap.Country.MaxMismanaged(), p)
	if !r.CountryMatched {
		r.Country = refdata.NormalizeCountry(in.Country)
	}
	return r, nil
}

// round2 rounds half away from zero to two decimal places. Non-finite values
// are returned unchanged.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(MaxScore, max(0, v))
}
