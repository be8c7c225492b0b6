package scoring

import "fmt"

// Explain describes how the score is built, one line per driver.
func Explain(p Params) []string {
	return []string{
		"Market strength: price per kg x demand score",
		fmt.Sprintf("Scale efficiency: 1 + quantity / %g kg, so larger batches improve viability", p.ScaleDivisor),
		fmt.Sprintf("Environmental pressure: 1 + %g x mismanaged waste relative to the highest observed country", p.EnvWeight),
		fmt.Sprintf("Score = market strength x scale x pressure, rounded to 2 dp and capped at %g", MaxScore),
	}
}
