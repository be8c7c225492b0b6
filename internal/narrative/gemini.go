package narrative

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/rshade/regenesis/internal/logging"
	"github.com/rshade/regenesis/internal/scoring"
)

const geminiSystemPrompt = "You are a circular-economy analyst. Write concise, practical business " +
	"commentary for entrepreneurs evaluating a recycling venture. Plain prose, no headings, no lists."

// GeminiNarrator asks a Gemini model for the narrative.
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

// NewGeminiNarrator creates a client for the Gemini API. An empty model
// selects DefaultGeminiModel.
func NewGeminiNarrator(ctx context.Context, apiKey, model string) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

// Name implements Narrator.
func (g *GeminiNarrator) Name() string { return ProviderGemini + ":" + g.model }

// Narrate implements Narrator.
func (g *GeminiNarrator) Narrate(ctx context.Context, req Request) (string, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "narrative").
		Str("operation", "gemini_generate").
		Str("model", g.model).
		Msg("requesting narrative")

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: geminiSystemPrompt}},
		},
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(req)), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := cleanMarkdown(result.Text())
	if text == "" {
		return "", ErrEmptyNarrative
	}
	return text, nil
}

func buildPrompt(req Request) string {
	country := req.Country
	if country == "" {
		country = "an unspecified country"
	}
	return fmt.Sprintf(
		"A recycling venture processing %s in %s has a feasibility score of %.2f out of 100 (%s).\n"+
			"In about 120 words, explain what this score means for the venture, the main risks, and "+
			"the two most important next steps.",
		req.WasteType, country, req.FeasibilityScore, scoring.ComputeStatus(req.FeasibilityScore))
}

// cleanMarkdown strips an outer fenced code block the model sometimes adds.
func cleanMarkdown(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 && !strings.Contains(cleaned[:nl], " ") {
			cleaned = cleaned[nl+1:]
		}
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
