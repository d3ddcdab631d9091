package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

// IntentKind is the closed set of actions the controller can execute.
type IntentKind int

const (
	IntentNone IntentKind = iota // plain reply, nothing to execute
	IntentSearch
	IntentListings
	IntentOpen
	IntentChat
	IntentLowball
	IntentScreenshot
	IntentHistory
)

// Intent is one interpreted user command.
type Intent struct {
	Kind     IntentKind
	Query    string
	MaxPrice decimal.Decimal
	Index    int
	Reply    string // assistant text when Kind == IntentNone
}

// IntentParser turns a free-text user prompt into an Intent.
type IntentParser interface {
	ParseIntent(ctx context.Context, prompt string) (Intent, error)
}

const intentSystemPrompt = `You are Carousell Lowballer, an AI assistant that helps users find and negotiate deals on Carousell Singapore.

You have access to these tools:
- search_listings(query, max_price): Search for items
- show_listings(): Show current extracted listings
- open_listing(listing_index): View a specific listing
- open_chat(listing_index): Open chat with seller
- delegate_lowball(listing_index): Start negotiation
- take_screenshot(): Capture current page
- show_history(): Show negotiation history

When the user asks to find items, use search_listings.
When they want to negotiate, use delegate_lowball.
If no tool applies, answer briefly in plain text.`

func intentTools() []openai.Tool {
	obj := func(props map[string]any, required ...string) map[string]any {
		if required == nil {
			required = []string{}
		}
		return map[string]any{"type": "object", "properties": props, "required": required}
	}
	indexProp := map[string]any{
		"listing_index": map[string]any{
			"type":        "integer",
			"description": "Index of the listing from show_listings results",
		},
	}

	defs := []struct {
		name, desc string
		params     map[string]any
	}{
		{"search_listings", "Search for items on Carousell Singapore.", obj(map[string]any{
			"query":     map[string]any{"type": "string", "description": "The search query (e.g., 'iPhone 14')"},
			"max_price": map[string]any{"type": "number", "description": "Optional maximum price filter"},
		}, "query")},
		{"show_listings", "Show the currently cached listings.", obj(map[string]any{})},
		{"open_listing", "Open a specific listing by index.", obj(indexProp, "listing_index")},
		{"open_chat", "Open the seller chat for a listing.", obj(indexProp, "listing_index")},
		{"delegate_lowball", "Start lowball negotiation on a listing.", obj(indexProp, "listing_index")},
		{"take_screenshot", "Take a screenshot of the current page.", obj(map[string]any{})},
		{"show_history", "Show negotiation history.", obj(map[string]any{})},
	}

	tools := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.name,
				Description: d.desc,
				Parameters:  d.params,
			},
		})
	}
	return tools
}

// OpenAIIntentParser interprets prompts via function calling.
type OpenAIIntentParser struct {
	client *openai.Client
	model  string
}

func NewOpenAIIntentParser(apiKey, model string) (*OpenAIIntentParser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIIntentParser{client: openai.NewClient(apiKey), model: model}, nil
}

func (p *OpenAIIntentParser) ParseIntent(ctx context.Context, prompt string) (Intent, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: intentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Tools:       intentTools(),
		Temperature: 0,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("intent parsing failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Intent{}, fmt.Errorf("intent parsing failed: no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return Intent{Kind: IntentNone, Reply: msg.Content}, nil
	}

	return intentFromToolCall(msg.ToolCalls[0])
}

// intentFromToolCall maps a requested tool onto the closed Intent set.
// Unknown tool names are an error, never a silent default.
func intentFromToolCall(tc openai.ToolCall) (Intent, error) {
	var args struct {
		Query        string  `json:"query"`
		MaxPrice     float64 `json:"max_price"`
		ListingIndex int     `json:"listing_index"`
	}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return Intent{}, fmt.Errorf("bad tool arguments %q: %w", tc.Function.Arguments, err)
		}
	}

	switch tc.Function.Name {
	case "search_listings":
		return Intent{Kind: IntentSearch, Query: args.Query, MaxPrice: decimal.NewFromFloat(args.MaxPrice)}, nil
	case "show_listings":
		return Intent{Kind: IntentListings}, nil
	case "open_listing":
		return Intent{Kind: IntentOpen, Index: args.ListingIndex}, nil
	case "open_chat":
		return Intent{Kind: IntentChat, Index: args.ListingIndex}, nil
	case "delegate_lowball":
		return Intent{Kind: IntentLowball, Index: args.ListingIndex}, nil
	case "take_screenshot":
		return Intent{Kind: IntentScreenshot}, nil
	case "show_history":
		return Intent{Kind: IntentHistory}, nil
	default:
		return Intent{}, fmt.Errorf("model requested unknown tool %q", tc.Function.Name)
	}
}
