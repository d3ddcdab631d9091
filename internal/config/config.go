package config

import (
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds everything the agent reads from the environment.
// A .env file in the working directory is picked up if present.
type Config struct {
	// LLM provider selection
	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Browser
	BrowserBackend string `env:"BROWSER_BACKEND" envDefault:"playwright"` // playwright | chromedp
	Headless       bool   `env:"HEADLESS_BROWSER" envDefault:"false"`

	// Marketplace
	SearchURLTemplate string `env:"SEARCH_URL_TEMPLATE" envDefault:"https://www.carousell.sg/search/%s"`

	// Negotiation
	Strategy     string `env:"NEGOTIATION_STRATEGY" envDefault:"ackerman"`
	StrategyFile string `env:"STRATEGY_FILE"`
	Persona      string `env:"NEGOTIATION_PERSONA" envDefault:"chris_voss"`
	MaxRounds    int    `env:"MAX_NEGOTIATION_ROUNDS" envDefault:"5"`

	// Session timing
	ReplyTimeout   time.Duration `env:"REPLY_TIMEOUT" envDefault:"90s"`
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	SendRetryDelay time.Duration `env:"SEND_RETRY_DELAY" envDefault:"2s"`

	// Persistence
	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"` // file | pebble
	StorePath    string `env:"STORE_PATH" envDefault:"chat_history.json"`

	// Dashboard bridge
	BridgePort int `env:"BRIDGE_PORT" envDefault:"5001"`
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
