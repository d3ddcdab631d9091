package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator composes negotiation messages through the OpenAI chat API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.Persona.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: p.UserMessage()},
		},
		Temperature: 0.8,
		MaxTokens:   100,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err = g.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		if strings.Contains(err.Error(), "429") {
			select {
			case <-time.After(time.Duration(2*(1<<attempt)) * time.Second):
				continue
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, ctx.Err())
			}
		}
		break
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrGenerationFailed)
	}
	msg := cleanMessage(resp.Choices[0].Message.Content)
	if msg == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}
	return msg, nil
}
