package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator composes negotiation messages through the Gemini API.
// GEMINI_API_KEY is read by the genai client itself.
type GeminiGenerator struct {
	model string
}

func NewGeminiGenerator(model string) *GeminiGenerator {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiGenerator{model: model}
}

func (g *GeminiGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(p.Persona.SystemPrompt()),
		genai.NewPartFromText(p.UserMessage()),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0.8)
	cfg := &genai.GenerateContentConfig{Temperature: &temp}

	res, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	msg := cleanMessage(res.Text())
	if msg == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}
	return msg, nil
}
