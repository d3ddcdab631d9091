package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lowball-labs/go-lowball-agent/internal/browser"
	"github.com/lowball-labs/go-lowball-agent/internal/marketplace"
)

// ErrSendFailed marks a transient chat delivery failure. The controller
// retries once before surfacing it.
var ErrSendFailed = errors.New("chat send failed")

// Handle is one open seller conversation. sellerSeen tracks how many
// seller messages were already on screen, so PollReply only reports new
// ones.
type Handle struct {
	Listing    marketplace.Listing
	sellerSeen int
}

// Channel opens seller conversations and moves messages across them.
type Channel interface {
	Open(ctx context.Context, listing marketplace.Listing) (*Handle, error)
	Send(ctx context.Context, h *Handle, text string) error
	// PollReply waits up to timeout for a new seller message. The bool is
	// false when the seller stayed silent; that is not an error.
	PollReply(ctx context.Context, h *Handle, timeout time.Duration) (string, bool, error)
}

// Chat button candidates on a listing page, most specific first.
var chatButtonSelectors = []string{
	`[data-testid="chat-button"]`,
	`button[title="Chat"]`,
	`a[href*="/chats/"]`,
	`[class*="chat"]`,
}

// Message box candidates inside the chat window.
var chatInputSelectors = []string{
	`textarea[placeholder="Type here..."]`,
	`textarea[placeholder*="Type"]`,
	`textarea[placeholder*="message"]`,
	`[contenteditable="true"]`,
	`textarea`,
}

// scrapeScript reads the visible transcript. The class names are the
// Carousell chat containers: D_cbq marks our bubbles, D_cbr the seller's.
const scrapeScript = `(() => {
	const msgs = [];
	const elements = document.querySelectorAll('div[id^="chat-message-"], .D_cbh');
	elements.forEach(el => {
		const isMe = el.querySelector('.D_cbq') !== null;
		const textEl = el.querySelector('p.D_cBA') || el.querySelector('p');
		if (!textEl) return;
		const text = textEl.innerText.trim();
		if (text) {
			msgs.push({ role: isMe ? "buyer" : "seller", content: text });
		}
	});
	return JSON.stringify(msgs);
})()`

type scrapedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BrowserChannel drives the marketplace chat window through a live page.
type BrowserChannel struct {
	driver       browser.Driver
	pollInterval time.Duration
}

func NewBrowserChannel(driver browser.Driver, pollInterval time.Duration) *BrowserChannel {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &BrowserChannel{driver: driver, pollInterval: pollInterval}
}

func (c *BrowserChannel) Open(ctx context.Context, listing marketplace.Listing) (*Handle, error) {
	target := listing.ChannelRef
	if target == "" {
		target = listing.SourceURL
	}
	if target == "" {
		return nil, fmt.Errorf("listing %q has no channel reference", listing.Title)
	}

	cur, _ := c.driver.URL(ctx)
	if cur != target {
		if err := c.driver.Navigate(ctx, target); err != nil {
			return nil, fmt.Errorf("open listing page: %w", err)
		}
	}

	clicked := false
	for _, sel := range chatButtonSelectors {
		if err := c.driver.WaitVisible(ctx, sel, 3*time.Second); err != nil {
			continue
		}
		if err := c.driver.Click(ctx, sel); err != nil {
			continue
		}
		clicked = true
		break
	}
	if !clicked {
		return nil, fmt.Errorf("could not find chat button for %q (login may be required)", listing.Title)
	}

	h := &Handle{Listing: listing}
	// Baseline the transcript so old seller messages don't count as replies.
	if msgs, err := c.scrape(ctx); err == nil {
		h.sellerSeen = countSeller(msgs)
	}

	fmt.Printf("CHAT: ✓ Opened chat for %q\n", listing.Title)
	return h, nil
}

func (c *BrowserChannel) Send(ctx context.Context, h *Handle, text string) error {
	for _, sel := range chatInputSelectors {
		if err := c.driver.WaitVisible(ctx, sel, 3*time.Second); err != nil {
			continue
		}
		if err := c.driver.Fill(ctx, sel, text); err != nil {
			continue
		}
		if err := c.driver.Press(ctx, sel, "Enter"); err != nil {
			continue
		}
		fmt.Printf("CHAT: ✓ Message sent\n")
		return nil
	}
	return fmt.Errorf("%w: no usable chat input on %s", ErrSendFailed, h.Listing.Title)
}

func (c *BrowserChannel) PollReply(ctx context.Context, h *Handle, timeout time.Duration) (string, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		msgs, err := c.scrape(ctx)
		if err != nil {
			return "", false, fmt.Errorf("scrape chat: %w", err)
		}

		if n := countSeller(msgs); n > h.sellerSeen {
			latest := lastSeller(msgs)
			h.sellerSeen = n
			return latest, true, nil
		}

		if time.Now().After(deadline) {
			return "", false, nil
		}
		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
}

func (c *BrowserChannel) scrape(ctx context.Context) ([]scrapedMessage, error) {
	raw, err := c.driver.Evaluate(ctx, scrapeScript)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var msgs []scrapedMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return msgs, nil
}

func countSeller(msgs []scrapedMessage) int {
	n := 0
	for _, m := range msgs {
		if m.Role == "seller" {
			n++
		}
	}
	return n
}

func lastSeller(msgs []scrapedMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "seller" {
			return msgs[i].Content
		}
	}
	return ""
}
