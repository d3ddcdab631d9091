package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrGenerationFailed covers provider errors and empty completions.
	ErrGenerationFailed = errors.New("text generation failed")
	// ErrGenerationTimeout covers deadline and timeout conditions.
	ErrGenerationTimeout = errors.New("text generation timed out")
)

// Prompt is the structured context for composing one negotiation message.
type Prompt struct {
	Persona     Persona
	Item        string
	ListedPrice decimal.Decimal
	Offer       decimal.Decimal
	Round       int
	Description string
	History     []string // "buyer: ..." / "seller: ..." lines, oldest first
}

// TextGenerator produces one buyer message from a structured prompt.
// Implementations may return ErrGenerationFailed or ErrGenerationTimeout;
// callers are expected to degrade to a fallback template.
type TextGenerator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// UserMessage renders the prompt into the user turn sent to the model.
func (p Prompt) UserMessage() string {
	var sb strings.Builder
	sb.WriteString("Generate a negotiation message for Carousell:\n\n")
	fmt.Fprintf(&sb, "Item: %s\n", p.Item)
	fmt.Fprintf(&sb, "Listed Price: S$%s\n", p.ListedPrice.StringFixed(2))
	fmt.Fprintf(&sb, "Your Offer: S$%s\n", p.Offer.StringFixed(2))
	fmt.Fprintf(&sb, "Round: %d\n", p.Round)
	if p.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", p.Description)
	}

	if len(p.History) > 0 {
		history := p.History
		if len(history) > 10 {
			history = history[len(history)-10:]
		}
		sb.WriteString("\nCHAT HISTORY:\n")
		sb.WriteString(strings.Join(history, "\n"))
		sb.WriteString("\n")
	}

	sb.WriteString("\nTACTICAL GUIDANCE:\n")
	sb.WriteString(roundContext(p.Round))
	sb.WriteString("\n\nWrite ONLY the message itself, nothing else. Keep it to 1-2 sentences max.")
	return sb.String()
}

// cleanMessage strips wrapping quotes and whitespace models like to add.
func cleanMessage(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	return strings.TrimSpace(s)
}
