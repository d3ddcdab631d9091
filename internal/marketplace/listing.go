package marketplace

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Listing is a single for-sale item scraped from a search results page.
// Fields are fixed at scrape time; a negotiation keeps its own copy and
// never re-reads the live listing.
type Listing struct {
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	PriceRaw   string          `json:"price_raw,omitempty"`
	SellerID   string          `json:"seller_id"`
	SourceURL  string          `json:"source_url"`
	ChannelRef string          `json:"channel_reference,omitempty"`
	ImageURL   string          `json:"image_url,omitempty"`
	Location   string          `json:"location,omitempty"`
}

// Key returns the composite negotiation key for this listing: seller plus
// the first 20 runes of the title, matching the chat history file format.
func (l Listing) Key() string {
	title := l.Title
	if r := []rune(title); len(r) > 20 {
		title = string(r[:20])
	}
	seller := l.SellerID
	if seller == "" {
		seller = "unknown"
	}
	return seller + "_" + title
}

func (l Listing) String() string {
	return fmt.Sprintf("%s @ $%s (%s)", l.Title, l.Price.StringFixed(2), l.SellerID)
}

// FilterByPrice keeps listings at or below maxPrice. A zero maxPrice
// disables the filter.
func FilterByPrice(listings []Listing, maxPrice decimal.Decimal) []Listing {
	if maxPrice.IsZero() {
		return listings
	}
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price.LessThanOrEqual(maxPrice) {
			out = append(out, l)
		}
	}
	return out
}

// FormatForDisplay renders listings as an indexed table for the CLI.
func FormatForDisplay(listings []Listing) string {
	if len(listings) == 0 {
		return "(no listings)"
	}
	var sb strings.Builder
	for i, l := range listings {
		fmt.Fprintf(&sb, "  [%d] %s — $%s", i+1, l.Title, l.Price.StringFixed(2))
		if l.SellerID != "" {
			fmt.Fprintf(&sb, " — %s", l.SellerID)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
