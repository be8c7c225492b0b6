package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/rshade/regenesis/internal/scoring"
)

// TemplateNarrator writes a fixed, status-dependent summary. It never fails
// and never touches the network.
type TemplateNarrator struct{}

// NewTemplateNarrator returns a TemplateNarrator.
func NewTemplateNarrator() *TemplateNarrator { return &TemplateNarrator{} }

// Name implements Narrator.
func (*TemplateNarrator) Name() string { return ProviderTemplate }

// Narrate implements Narrator.
func (*TemplateNarrator) Narrate(_ context.Context, req Request) (string, error) {
	status := scoring.ComputeStatus(req.FeasibilityScore)
	where := titleCase(req.Country)
	if where == "" {
		where = "the selected market"
	}

	var outlook string
	switch status {
	case scoring.StatusHighRisk:
		outlook = fmt.Sprintf(
			"Recycling %s in %s looks risky today. Prices, demand or local waste pressure are too weak "+
				"to carry a venture on their own. Start with a small validation run, confirm a buyer, "+
				"and revisit once volumes or prices improve.", req.WasteType, where)
	case scoring.StatusModerateOpportunity:
		outlook = fmt.Sprintf(
			"Recycling %s in %s is a moderate opportunity. The market exists but margins depend on "+
				"execution: secure reliable collection, lock in an offtake agreement and keep processing "+
				"costs tight before scaling up.", req.WasteType, where)
	default:
		outlook = fmt.Sprintf(
			"Recycling %s in %s shows high potential. Market strength, batch scale and the volume of "+
				"mismanaged waste all point the same way. Move early to secure feedstock and buyers, and "+
				"plan capacity for growth.", req.WasteType, where)
	}

	return fmt.Sprintf("%s Feasibility score: %.2f/100 (%s).", outlook, req.FeasibilityScore, status), nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
