package marketplace

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// priceRegex matches the numeric part of price strings like
// "S$1,200", "From S$538" or "$99.90".
var priceRegex = regexp.MustCompile(`[\d,]+(?:\.\d{1,2})?`)

// ParsePrice extracts a decimal price from a raw price string.
// Returns zero when no number is present.
func ParsePrice(raw string) decimal.Decimal {
	m := priceRegex.FindString(raw)
	if m == "" {
		return decimal.Zero
	}
	m = strings.ReplaceAll(m, ",", "")
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// rawListing mirrors what the in-page extraction script returns per card.
type rawListing struct {
	Title      string `json:"title"`
	PriceRaw   string `json:"price_raw"`
	SellerName string `json:"seller_name"`
	ListingURL string `json:"listing_url"`
	ImageURL   string `json:"image_url"`
	Location   string `json:"location"`
}

// ParseListings decodes the JSON emitted by the extraction script into
// Listing records. Cards without a parsable positive price are dropped,
// duplicates (same seller and title) keep the first occurrence.
func ParseListings(rawJSON string) ([]Listing, error) {
	if strings.TrimSpace(rawJSON) == "" {
		return nil, nil
	}

	var raws []rawListing
	if err := json.Unmarshal([]byte(rawJSON), &raws); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	seen := make(map[string]bool, len(raws))
	listings := make([]Listing, 0, len(raws))
	for _, r := range raws {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		price := ParsePrice(r.PriceRaw)
		if !price.IsPositive() {
			continue
		}

		l := Listing{
			Title:      title,
			Price:      price,
			PriceRaw:   strings.TrimSpace(r.PriceRaw),
			SellerID:   strings.TrimSpace(r.SellerName),
			SourceURL:  strings.TrimSpace(r.ListingURL),
			ChannelRef: strings.TrimSpace(r.ListingURL),
			ImageURL:   r.ImageURL,
			Location:   r.Location,
		}
		if seen[l.Key()] {
			continue
		}
		seen[l.Key()] = true
		listings = append(listings, l)
	}

	return listings, nil
}
