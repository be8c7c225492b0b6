package scoring

// Status is the qualitative tier of a feasibility score.
type Status string

// Status tiers.
const (
	StatusHighRisk            Status = "High Risk"
	StatusModerateOpportunity Status = "Moderate Opportunity"
	StatusHighPotential       Status = "High Potential"
)

// ComputeStatus maps a score to its tier:
//   - below 30: High Risk
//   - 30 up to (not including) 70: Moderate Opportunity
//   - 70 and above: High Potential
func ComputeStatus(score float64) Status {
	switch {
	case score < ThresholdModerate:
		return StatusHighRisk
	case score < ThresholdHigh:
		return StatusModerateOpportunity
	default:
		return StatusHighPotential
	}
}

// Emoji returns the traffic-light marker shown next to the tier.
func (s Status) Emoji() string {
	switch s {
	case StatusHighRisk:
		return "🔴"
	case StatusModerateOpportunity:
		return "🟡"
	case StatusHighPotential:
		return "🟢"
	default:
		return ""
	}
}

// Description explains what the tier means for a venture.
func (s Status) Description() string {
	switch s {
	case StatusHighRisk:
		return "0-30: Low Opportunity. High risk and limited profitability potential."
	case StatusModerateOpportunity:
		return "30-70: Moderate Opportunity. Needs optimization and strategic planning."
	case StatusHighPotential:
		return "70-100: High Potential. Strong market, scale, and environmental advantage."
	default:
		return ""
	}
}

// Label is the emoji-prefixed tier name.
func (s Status) Label() string {
	if e := s.Emoji(); e != "" {
		return e + " " + string(s)
	}
	return string(s)
}

func (s Status) String() string { return string(s) }
