package negotiation

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/lowball-labs/go-lowball-agent/internal/marketplace"
)

// Status of a negotiation. accepted and walked_away are absorbing.
type Status string

const (
	StatusActive     Status = "active"
	StatusAccepted   Status = "accepted"
	StatusWalkedAway Status = "walked_away"
)

// Terminal reports whether no further rounds are permitted.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusWalkedAway
}

// Role of a chat message author.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Message is one chat turn. Immutable once appended.
type Message struct {
	ID         string           `json:"id"`
	Role       Role             `json:"role"`
	Content    string           `json:"content"`
	OfferPrice *decimal.Decimal `json:"offer_price,omitempty"`
	Round      int              `json:"round,omitempty"` // buyer offer messages only
	Timestamp  time.Time        `json:"timestamp"`
}

// Negotiation is the stateful back-and-forth for one listing/seller pair.
// The listing is copied at creation and never re-fetched, so the anchor
// price stays stable even if the live listing changes.
type Negotiation struct {
	Listing      marketplace.Listing `json:"listing"`
	Messages     []Message           `json:"messages"`
	CurrentRound int                 `json:"current_round"`
	Status       Status              `json:"status"`
	FinalPrice   *decimal.Decimal    `json:"final_price,omitempty"`
	StartedAt    time.Time           `json:"started_at"`
}

// Key returns the composite store key (seller + truncated title).
func (n *Negotiation) Key() string {
	return n.Listing.Key()
}

// LastBuyerOffer returns the price of the most recent buyer offer, or nil
// when no offer has been made yet.
func (n *Negotiation) LastBuyerOffer() *decimal.Decimal {
	for i := len(n.Messages) - 1; i >= 0; i-- {
		m := n.Messages[i]
		if m.Role == RoleBuyer && m.OfferPrice != nil {
			return m.OfferPrice
		}
	}
	return nil
}

// LastSellerMessage returns the content of the most recent seller message.
func (n *Negotiation) LastSellerMessage() string {
	for i := len(n.Messages) - 1; i >= 0; i-- {
		if n.Messages[i].Role == RoleSeller {
			return n.Messages[i].Content
		}
	}
	return ""
}

// HistoryLines renders the transcript as "role: content" lines for prompts.
func (n *Negotiation) HistoryLines() []string {
	lines := make([]string, 0, len(n.Messages))
	for _, m := range n.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return lines
}

// append adds a message; all mutation paths in the engine go through here
// so the transcript stays append-only.
func (n *Negotiation) append(m Message) {
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	n.Messages = append(n.Messages, m)
}
