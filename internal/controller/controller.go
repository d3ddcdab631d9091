package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lowball-labs/go-lowball-agent/internal/browser"
	"github.com/lowball-labs/go-lowball-agent/internal/chat"
	"github.com/lowball-labs/go-lowball-agent/internal/config"
	"github.com/lowball-labs/go-lowball-agent/internal/llm"
	"github.com/lowball-labs/go-lowball-agent/internal/marketplace"
	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
	"github.com/lowball-labs/go-lowball-agent/internal/store"
)

var (
	ErrNoListings      = errors.New("no listings loaded, search first")
	ErrIndexOutOfRange = errors.New("listing index out of range")
	ErrAlreadyResolved = errors.New("negotiation already resolved")
	ErrChannelSend     = errors.New("chat channel send failed")
)

// Controller executes interpreted user commands against the browser, the
// negotiation engine and the store. One instance drives one browser.
type Controller struct {
	cfg       *config.Config
	driver    browser.Driver
	source    marketplace.ListingSource
	channel   chat.Channel
	engine    *negotiation.Engine
	store     store.Store
	extractor *negotiation.PriceExtractor

	listings []marketplace.Listing
	session  *Session
}

func NewController(
	cfg *config.Config,
	driver browser.Driver,
	source marketplace.ListingSource,
	channel chat.Channel,
	engine *negotiation.Engine,
	st store.Store,
) *Controller {
	return &Controller{
		cfg:       cfg,
		driver:    driver,
		source:    source,
		channel:   channel,
		engine:    engine,
		store:     st,
		extractor: negotiation.NewPriceExtractor(),
		session:   NewSession(),
	}
}

// Listings returns the cached results of the last search.
func (c *Controller) Listings() []marketplace.Listing {
	return c.listings
}

// Dispatch executes one interpreted intent and returns the text to show
// the user. The switch is exhaustive over IntentKind; an unknown kind is
// a programming error and fails loudly.
func (c *Controller) Dispatch(ctx context.Context, in llm.Intent) (string, error) {
	switch in.Kind {
	case llm.IntentNone:
		return in.Reply, nil
	case llm.IntentSearch:
		return c.Search(ctx, in.Query, in.MaxPrice)
	case llm.IntentListings:
		return c.ShowListings()
	case llm.IntentOpen:
		return c.OpenListing(ctx, in.Index)
	case llm.IntentChat:
		return c.OpenChat(ctx, in.Index)
	case llm.IntentLowball:
		return c.Negotiate(ctx, in.Index)
	case llm.IntentScreenshot:
		return c.Screenshot(ctx)
	case llm.IntentHistory:
		return c.History()
	default:
		return "", fmt.Errorf("unhandled intent kind %d", in.Kind)
	}
}

// Search runs a marketplace search and caches the extracted listings.
func (c *Controller) Search(ctx context.Context, query string, maxPrice decimal.Decimal) (string, error) {
	c.session.To(StateSearching)
	listings, err := c.source.Search(ctx, query, maxPrice)
	if err != nil {
		c.session.To(StateIdle)
		return "", fmt.Errorf("search %q: %w", query, err)
	}

	c.listings = listings
	c.session.To(StateListed)
	return marketplace.FormatForDisplay(listings), nil
}

// ShowListings renders the cached listings without touching the browser.
func (c *Controller) ShowListings() (string, error) {
	if len(c.listings) == 0 {
		return "", ErrNoListings
	}
	return marketplace.FormatForDisplay(c.listings), nil
}

// OpenListing navigates the browser to the chosen listing page.
// Indices are 1-based, matching the numbered display.
func (c *Controller) OpenListing(ctx context.Context, index int) (string, error) {
	l, err := c.listingAt(index)
	if err != nil {
		return "", err
	}
	if l.SourceURL == "" {
		return "", fmt.Errorf("listing %d (%s) has no URL", index, l.Title)
	}
	if err := c.driver.Navigate(ctx, l.SourceURL); err != nil {
		return "", fmt.Errorf("open listing %d: %w", index, err)
	}
	fmt.Printf("MARKETPLACE: ✓ Opened %s\n", l.Title)
	return fmt.Sprintf("Opened %s ($%s)", l.Title, l.Price.StringFixed(2)), nil
}

// OpenChat opens the seller conversation for a listing and keeps the
// handle on the session for a later negotiation.
func (c *Controller) OpenChat(ctx context.Context, index int) (string, error) {
	l, err := c.listingAt(index)
	if err != nil {
		return "", err
	}
	h, err := c.channel.Open(ctx, l)
	if err != nil {
		return "", fmt.Errorf("open chat for listing %d: %w", index, err)
	}
	c.session.AttachChat(h)
	c.session.To(StateChatOpen)
	return fmt.Sprintf("Chat open with %s for %s", l.SellerID, l.Title), nil
}

// Screenshot captures the current page to a timestamped file.
func (c *Controller) Screenshot(ctx context.Context) (string, error) {
	path := fmt.Sprintf("screenshot_%s.jpg", time.Now().Format("20060102_150405"))
	if err := c.driver.Screenshot(ctx, path); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	fmt.Printf("MARKETPLACE: 📸 Saved %s\n", path)
	return "Screenshot saved to " + path, nil
}

// History summarises every stored negotiation.
func (c *Controller) History() (string, error) {
	all, err := c.store.LoadAll()
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	if len(all) == 0 {
		return "No negotiations yet.", nil
	}

	var b strings.Builder
	b.WriteString("Negotiation history:\n")
	for key, n := range all {
		line := fmt.Sprintf("  %s — %s, round %d, status %s", key, n.Listing.Title, n.CurrentRound, n.Status)
		if n.FinalPrice != nil {
			line += fmt.Sprintf(", closed at $%s", n.FinalPrice.StringFixed(2))
		}
		b.WriteString(line + "\n")
	}
	return b.String(), nil
}

func (c *Controller) listingAt(index int) (marketplace.Listing, error) {
	if len(c.listings) == 0 {
		return marketplace.Listing{}, ErrNoListings
	}
	if index < 1 || index > len(c.listings) {
		return marketplace.Listing{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.listings))
	}
	return c.listings[index-1], nil
}
