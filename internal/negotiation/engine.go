package negotiation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lowball-labs/go-lowball-agent/internal/llm"
	"github.com/lowball-labs/go-lowball-agent/internal/marketplace"
)

// minorUnit is the smallest currency step, used to keep consecutive
// offers strictly increasing when rounding would make them collide.
var minorUnit = decimal.New(1, -2) // 0.01

// Engine owns the negotiation state machine: offer escalation, message
// composition and status transitions. It never touches the chat channel;
// the controller sends whatever text the engine returns.
type Engine struct {
	gen      llm.TextGenerator
	strategy Strategy
	persona  llm.Persona
}

func NewEngine(gen llm.TextGenerator, strategy Strategy, persona llm.Persona) *Engine {
	return &Engine{gen: gen, strategy: strategy, persona: persona}
}

// Strategy exposes the active escalation table.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Start creates a fresh negotiation for a listing.
func (e *Engine) Start(listing marketplace.Listing) (*Negotiation, error) {
	if !listing.Price.IsPositive() {
		return nil, fmt.Errorf("%w: %q has price %s", ErrInvalidListing, listing.Title, listing.Price)
	}
	return &Negotiation{
		Listing:   listing,
		Status:    StatusActive,
		StartedAt: time.Now().UTC(),
	}, nil
}

// Exhausted reports whether every automatic round has been played.
func (e *Engine) Exhausted(n *Negotiation) bool {
	return n.CurrentRound >= e.strategy.MaxRounds()
}

// NextOffer computes the offer for round current_round+1. Once the table
// is exhausted it returns ErrRoundsExhausted; the caller must WalkAway.
// Offers are guaranteed strictly increasing: a rounding collision with
// the previous offer is bumped by one minor currency unit.
func (e *Engine) NextOffer(n *Negotiation) (decimal.Decimal, error) {
	if n.Status.Terminal() {
		return decimal.Zero, fmt.Errorf("%w (%s)", ErrTerminalNegotiation, n.Key())
	}
	if e.Exhausted(n) {
		return decimal.Zero, fmt.Errorf("%w after round %d", ErrRoundsExhausted, n.CurrentRound)
	}

	offer := e.strategy.OfferFor(n.Listing.Price, n.CurrentRound+1)
	if last := n.LastBuyerOffer(); last != nil && offer.LessThanOrEqual(*last) {
		offer = last.Add(minorUnit)
	}
	return offer, nil
}

// ComposeMessage turns an offer into buyer text. Generation failures and
// timeouts degrade to a deterministic round template; this never fails.
func (e *Engine) ComposeMessage(ctx context.Context, n *Negotiation, offer decimal.Decimal) string {
	round := n.CurrentRound + 1
	prompt := llm.Prompt{
		Persona:     e.persona,
		Item:        n.Listing.Title,
		ListedPrice: n.Listing.Price,
		Offer:       offer,
		Round:       round,
		History:     n.HistoryLines(),
	}

	text, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		fmt.Printf("LOWBALLER: ✗ LLM generation failed, using fallback → %v\n", err)
		return fallbackMessage(n.Listing.Title, offer, round)
	}
	return text
}

// RecordBuyerOffer appends the sent offer message and advances the round.
// Callers must only record messages that were actually delivered.
func (e *Engine) RecordBuyerOffer(n *Negotiation, offer decimal.Decimal, text string) error {
	if n.Status.Terminal() {
		return fmt.Errorf("%w (%s)", ErrTerminalNegotiation, n.Key())
	}
	if last := n.LastBuyerOffer(); last != nil && !offer.GreaterThan(*last) {
		// Offers are produced by NextOffer, which enforces monotonicity;
		// reaching this line is a bug in the caller.
		panic(fmt.Sprintf("negotiation %s: non-monotonic offer %s after %s", n.Key(), offer, last))
	}

	n.append(Message{
		Role:       RoleBuyer,
		Content:    text,
		OfferPrice: &offer,
		Round:      n.CurrentRound + 1,
	})
	n.CurrentRound++
	return nil
}

// RecordSellerReply appends the seller's message. When parsedPrice is
// present and at or below the last buyer offer, the deal is accepted and
// the negotiation closes with that price.
func (e *Engine) RecordSellerReply(n *Negotiation, text string, parsedPrice *decimal.Decimal) error {
	if n.Status.Terminal() {
		return fmt.Errorf("%w (%s)", ErrTerminalNegotiation, n.Key())
	}

	n.append(Message{Role: RoleSeller, Content: text})

	if parsedPrice == nil {
		return nil
	}
	last := n.LastBuyerOffer()
	if last == nil || parsedPrice.GreaterThan(*last) {
		// A higher number is a counter-offer; the next round handles it.
		return nil
	}

	price := *parsedPrice
	n.Status = StatusAccepted
	n.FinalPrice = &price
	fmt.Printf("LOWBALLER: 🎉 DEAL ACCEPTED at $%s for %s\n", price.StringFixed(2), n.Listing.Title)
	return nil
}

// WalkAway closes the negotiation with a courtesy message. Calling it on
// an already-terminal negotiation is a no-op.
func (e *Engine) WalkAway(n *Negotiation) error {
	if n.Status.Terminal() {
		return nil
	}
	n.append(Message{Role: RoleBuyer, Content: WalkAwayText()})
	n.Status = StatusWalkedAway
	fmt.Printf("LOWBALLER: Walking away from %s after %d rounds\n", n.Listing.Title, n.CurrentRound)
	return nil
}

// Deterministic fallback templates, one per round tactic. Used when the
// generator is unavailable so a round never aborts on LLM failure.
func fallbackMessage(item string, offer decimal.Decimal, round int) string {
	amount := offer.StringFixed(2)
	switch round {
	case 1:
		return fmt.Sprintf("Hi! I know this is below asking, but seen similar %ss around $%s. Cash ready, can pickup today!", item, amount)
	case 2:
		return fmt.Sprintf("Firm? I understand. Would $%s work if I pickup within the hour? Cash in hand.", amount)
	case 3:
		return fmt.Sprintf("It seems like you want this sold quickly - $%s cash and I'm free right now to collect?", amount)
	case 4:
		return fmt.Sprintf("You probably have better offers coming in, but $%s cash today is my best. Serious buyer here.", amount)
	default:
		return fmt.Sprintf("$%s is really my final offer. No worries if it doesn't work - all the best!", amount)
	}
}

// WalkAwayText is the courtesy sign-off sent when abandoning a
// negotiation. Exposed so the chat layer delivers the same line that is
// recorded in the transcript.
func WalkAwayText() string {
	return "I totally understand if this doesn't work for you. Good luck with the sale!"
}
