package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lowball-labs/go-lowball-agent/internal/chat"
	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
)

// Negotiate runs the full automatic lowball session against one listing:
// escalating offers round by round until the seller accepts, the round
// table runs out, or the context is cancelled. Existing negotiations are
// resumed from the store by listing key; resuming a terminal one returns
// ErrAlreadyResolved.
func (c *Controller) Negotiate(ctx context.Context, index int) (string, error) {
	l, err := c.listingAt(index)
	if err != nil {
		return "", err
	}

	n, found, err := c.store.Load(l.Key())
	if err != nil {
		return "", fmt.Errorf("load negotiation %s: %w", l.Key(), err)
	}
	if found && n.Status.Terminal() {
		return "", fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, l.Title, n.Status)
	}
	if !found {
		n, err = c.engine.Start(l)
		if err != nil {
			return "", err
		}
	} else {
		fmt.Printf("LOWBALLER: Resuming %s at round %d\n", l.Title, n.CurrentRound)
		if last := n.LastSellerMessage(); last != "" {
			fmt.Printf("LOWBALLER: Seller last said: %q\n", last)
		}
	}

	h := c.session.Chat()
	if h == nil || h.Listing.Key() != l.Key() {
		h, err = c.channel.Open(ctx, l)
		if err != nil {
			return "", fmt.Errorf("open chat: %w", err)
		}
		c.session.AttachChat(h)
	}

	c.session.To(StateChatOpen)
	c.session.To(StateNegotiating)
	fmt.Printf("LOWBALLER: 💰 Target %s listed at $%s, strategy %s\n",
		l.Title, l.Price.StringFixed(2), c.engine.Strategy().Name)

	rep := NewReporter(l.Title)
	for {
		if err := ctx.Err(); err != nil {
			// Leave the record active and durable so a later run resumes it.
			rep.Print(n, "interrupted")
			return "", err
		}
		if n.CurrentRound >= c.cfg.MaxRounds {
			return c.walkAway(ctx, h, n, rep)
		}

		offer, err := c.engine.NextOffer(n)
		if errors.Is(err, negotiation.ErrRoundsExhausted) {
			return c.walkAway(ctx, h, n, rep)
		}
		if err != nil {
			return "", err
		}

		text := c.engine.ComposeMessage(ctx, n, offer)
		fmt.Printf("LOWBALLER: Round %d offer $%s\n", n.CurrentRound+1, offer.StringFixed(2))

		if err := c.sendWithRetry(ctx, h, text); err != nil {
			// Round is never advanced for an undelivered message.
			rep.Offer(n.CurrentRound+1, offer, false)
			rep.Print(n, "chat channel failed")
			return "", err
		}
		rep.Offer(n.CurrentRound+1, offer, true)
		if err := c.engine.RecordBuyerOffer(n, offer, text); err != nil {
			return "", err
		}
		if err := c.store.Save(n); err != nil {
			return "", fmt.Errorf("save negotiation: %w", err)
		}

		reply, ok, err := c.channel.PollReply(ctx, h, c.cfg.ReplyTimeout)
		if err != nil {
			rep.Print(n, "interrupted while waiting for seller")
			return "", err
		}
		if !ok {
			fmt.Printf("LOWBALLER: No reply within %s, escalating\n", c.cfg.ReplyTimeout)
			rep.Silence(n.CurrentRound, c.cfg.ReplyTimeout)
			continue
		}

		fmt.Printf("SELLER: %s\n", reply)
		rep.Reply(n.CurrentRound, reply)
		price, foundPrice := c.extractor.Extract(reply)
		pp := &price
		if !foundPrice {
			pp = nil
		}
		if err := c.engine.RecordSellerReply(n, reply, pp); err != nil {
			return "", err
		}
		if err := c.store.Save(n); err != nil {
			return "", fmt.Errorf("save negotiation: %w", err)
		}

		if n.Status == negotiation.StatusAccepted {
			c.session.To(StateDealClosed)
			rep.Print(n, "seller accepted")
			return fmt.Sprintf("🎉 Deal closed: %s at $%s after %d rounds",
				l.Title, n.FinalPrice.StringFixed(2), n.CurrentRound), nil
		}
	}
}

// sendWithRetry delivers one chat message, retrying once after a short
// delay. A second failure surfaces as ErrChannelSend.
func (c *Controller) sendWithRetry(ctx context.Context, h *chat.Handle, text string) error {
	err := c.channel.Send(ctx, h, text)
	if err == nil {
		return nil
	}
	fmt.Printf("LOWBALLER: ✗ Send failed, retrying once → %v\n", err)

	select {
	case <-time.After(c.cfg.SendRetryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := c.channel.Send(ctx, h, text); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelSend, err)
	}
	return nil
}

// walkAway closes out a negotiation whose round table is spent: the
// courtesy message is delivered best-effort, the record flips to
// walked_away and is persisted.
func (c *Controller) walkAway(ctx context.Context, h *chat.Handle, n *negotiation.Negotiation, rep *Reporter) (string, error) {
	if err := c.sendWithRetry(ctx, h, negotiation.WalkAwayText()); err != nil {
		fmt.Printf("LOWBALLER: ✗ Could not deliver walk-away message → %v\n", err)
	}
	if err := c.engine.WalkAway(n); err != nil {
		return "", err
	}
	if err := c.store.Save(n); err != nil {
		return "", fmt.Errorf("save negotiation: %w", err)
	}
	c.session.To(StateWalked)
	rep.Print(n, "offer table exhausted")
	return fmt.Sprintf("Walked away from %s after %d rounds", n.Listing.Title, n.CurrentRound), nil
}
