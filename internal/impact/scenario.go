package impact

import (
	"fmt"
	"strings"
)

// Scenario selects a revenue growth assumption. It scales the six-month
// revenue projection only; the feasibility score is unaffected.
type Scenario string

// Supported scenarios.
const (
	ScenarioConservative Scenario = "conservative"
	ScenarioBalanced     Scenario = "balanced"
	ScenarioAggressive   Scenario = "aggressive"
)

// DefaultScenario is used when none is given.
const DefaultScenario = ScenarioBalanced

var scenarioMultipliers = map[Scenario]float64{ //nolint:gochecknoglobals // Constant lookup table
	ScenarioConservative: 0.7,
	ScenarioBalanced:     1.0,
	ScenarioAggressive:   1.4,
}

// Scenarios lists the supported scenarios from most to least cautious.
func Scenarios() []Scenario {
	return []Scenario{ScenarioConservative, ScenarioBalanced, ScenarioAggressive}
}

// Multiplier returns the revenue multiplier, or 0 for an unknown scenario.
func (s Scenario) Multiplier() float64 {
	return scenarioMultipliers[s]
}

// ParseScenario accepts a scenario name case-insensitively. An empty string
// yields DefaultScenario.
func ParseScenario(s string) (Scenario, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return DefaultScenario, nil
	}
	sc := Scenario(name)
	if _, ok := scenarioMultipliers[sc]; !ok {
		return "", fmt.Errorf("%w: %q (valid: conservative, balanced, aggressive)", ErrUnknownScenario, s)
	}
	return sc, nil
}
