package llm

import (
	"fmt"

	"github.com/lowball-labs/go-lowball-agent/internal/config"
)

// FromConfig builds the configured TextGenerator. The provider switch
// lives here and nowhere else.
func FromConfig(cfg *config.Config) (TextGenerator, error) {
	switch cfg.LLMProvider {
	case "openai", "":
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "gemini":
		return NewGeminiGenerator(cfg.GeminiModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
