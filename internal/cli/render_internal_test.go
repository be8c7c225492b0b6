package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/impact"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

func testAssessment(t *testing.T) *engine.Assessment {
	t.Helper()
	doc, err := roadmap.Generate(6, 33.6, "PET", "testland", roadmap.DefaultBounds())
	require.NoError(t, err)
	return &engine.Assessment{
		Feasibility: scoring.Result{
			WasteType:        "PET",
			Country:          "testland",
			CountryMatched:   true,
			QuantityKg:       100,
			Currency:         "INR",
			MarketValue:      16000,
			FeasibilityScore: 33.6,
			Status:           scoring.StatusModerateOpportunity,
		},
		Impact:    impact.Estimate{Scenario: impact.ScenarioBalanced, MonthlyRevenue: 352000, JobsCreated: 3},
		Roadmap:   doc,
		Narrative: "A steady opportunity.",
	}
}

func TestCalculateBoxWidth(t *testing.T) {
	tests := []struct {
		termWidth int
		want      int
	}{
		{30, minBoxWidth},
		{60, 48},
		{120, defaultBoxWidth},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateBoxWidth(tt.termWidth), "width %d", tt.termWidth)
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, colorHighRisk(), statusColor(scoring.StatusHighRisk))
	assert.Equal(t, colorModerate(), statusColor(scoring.StatusModerateOpportunity))
	assert.Equal(t, colorPotential(), statusColor(scoring.StatusHighPotential))
}

func TestRenderStyledAssessment(t *testing.T) {
	view := assessmentView{Assessment: testAssessment(t), Explain: scoring.Explain(scoring.DefaultParams())}

	var buf bytes.Buffer
	require.NoError(t, renderStyledAssessment(&buf, view, 2))

	out := buf.String()
	assert.Contains(t, out, "FEASIBILITY ASSESSMENT")
	assert.Contains(t, out, "33.60 / 100")
	assert.Contains(t, out, "Roadmap (6 weeks)")
	assert.Contains(t, out, "A steady opportunity.")
	assert.Contains(t, out, "How the score is built")
	assert.Contains(t, out, "╭")
}

func TestRenderPlainAssessment_Precision(t *testing.T) {
	view := assessmentView{Assessment: testAssessment(t)}

	var buf bytes.Buffer
	require.NoError(t, renderPlainAssessment(&buf, view, 0))

	out := buf.String()
	assert.Contains(t, out, "INR 16,000\n")
	assert.Contains(t, out, "INR 352,000\n")
	assert.Contains(t, out, "Narrative (")
	assert.NotContains(t, out, "How the score is built")
}

func TestRenderAssessment_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderAssessment(&buf, outputTable, assessmentView{Assessment: testAssessment(t)}, 2))
	assert.NotContains(t, buf.String(), "╭")
	assert.Contains(t, buf.String(), "======")
}

func TestRenderList_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderList(&buf, outputNDJSON, "X", []string{"pet", "hdpe"}))
	assert.Equal(t, "{\"name\":\"pet\"}\n{\"name\":\"hdpe\"}\n", buf.String())
}
