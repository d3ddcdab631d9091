package marketplace

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"S$1,200", "1200"},
		{"From S$538", "538"},
		{"$99.90", "99.9"},
		{"Free", "0"},
		{"", "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePrice(tt.raw).String(), "raw %q", tt.raw)
	}
}

func TestParseListings(t *testing.T) {
	raw := `[
		{"title": "PS5 Console", "price_raw": "S$480", "seller_name": "gamer88", "listing_url": "https://x/p/1"},
		{"title": "PS5 Console", "price_raw": "S$500", "seller_name": "gamer88", "listing_url": "https://x/p/2"},
		{"title": "Broken PS5", "price_raw": "Free", "seller_name": "giver"},
		{"title": "", "price_raw": "S$100", "seller_name": "ghost"},
		{"title": "Switch OLED", "price_raw": "S$320.50", "seller_name": "", "listing_url": "https://x/p/3"}
	]`

	listings, err := ParseListings(raw)
	require.NoError(t, err)
	require.Len(t, listings, 2, "duplicates, free and untitled cards are dropped")

	assert.Equal(t, "PS5 Console", listings[0].Title)
	assert.Equal(t, "480", listings[0].Price.String())
	assert.Equal(t, "gamer88", listings[0].SellerID)
	assert.Equal(t, "https://x/p/1", listings[0].ChannelRef, "first occurrence wins")

	assert.Equal(t, "320.5", listings[1].Price.String())
}

func TestParseListingsEmptyAndInvalid(t *testing.T) {
	listings, err := ParseListings("  ")
	require.NoError(t, err)
	assert.Nil(t, listings)

	_, err = ParseListings("{not json")
	assert.Error(t, err)
}

func TestListingKey(t *testing.T) {
	l := Listing{Title: "Very Long Listing Title That Goes On", SellerID: "bob"}
	assert.Equal(t, "bob_Very Long Listing Ti", l.Key())

	anon := Listing{Title: "Short"}
	assert.Equal(t, "unknown_Short", anon.Key())
}

func TestFilterByPrice(t *testing.T) {
	listings := []Listing{
		{Title: "a", Price: decimal.NewFromInt(100)},
		{Title: "b", Price: decimal.NewFromInt(300)},
	}

	assert.Len(t, FilterByPrice(listings, decimal.Zero), 2, "zero max means no filter")
	got := FilterByPrice(listings, decimal.NewFromInt(150))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)
}
