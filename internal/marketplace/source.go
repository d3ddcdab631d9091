package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lowball-labs/go-lowball-agent/internal/browser"
)

// ListingSource produces listings for a search query. Each call is a fresh,
// finite scrape of whatever the results page currently shows.
type ListingSource interface {
	Search(ctx context.Context, query string, maxPrice decimal.Decimal) ([]Listing, error)
}

// extractScript pulls listing cards out of a Carousell search results page.
// Card detection mirrors the selector fallbacks the site has been seen
// using: data-testid cards and /p/ listing links.
const extractScript = `(() => {
	const cards = new Map();

	const push = (el) => {
		const link = el.matches('a[href*="/p/"]') ? el : el.querySelector('a[href*="/p/"]');
		if (!link) return;
		const href = link.getAttribute('href') || '';
		if (!href || cards.has(href)) return;

		const root = link.closest('[data-testid]') || link;
		const text = (sel) => {
			const n = root.querySelector(sel);
			return n ? n.textContent.trim() : '';
		};

		let price = '';
		for (const n of root.querySelectorAll('span, p')) {
			const t = n.textContent.trim();
			if (/(^|\s)S?\$\s?[\d,]/.test(t)) { price = t; break; }
		}

		let title = text('p[style*="line-clamp"], h3, [class*="title"]');
		if (!title) {
			title = (link.getAttribute('title') || link.getAttribute('aria-label') || '').trim();
		}

		let seller = text('[data-testid*="seller"], [class*="seller"], a[href*="/u/"]');
		const sellerLink = root.querySelector('a[href^="/u/"], a[href*="/u/"]');
		if (!seller && sellerLink) {
			seller = (sellerLink.getAttribute('href') || '').replace(/^.*\/u\//, '').split(/[/?]/)[0];
		}

		const img = root.querySelector('img');
		cards.set(href, {
			title: title,
			price_raw: price,
			seller_name: seller,
			listing_url: new URL(href, window.location.origin).toString(),
			image_url: img ? (img.currentSrc || img.src || '') : '',
			location: text('[data-testid*="location"], [class*="location"]'),
		});
	};

	document.querySelectorAll('[data-testid*="listing"]').forEach(push);
	document.querySelectorAll('a[href*="/p/"]').forEach(push);

	return JSON.stringify(Array.from(cards.values()).slice(0, 20));
})()`

// BrowserSource scrapes listings through a live browser page.
type BrowserSource struct {
	driver      browser.Driver
	searchURL   string // template with one %s for the escaped query
	settleDelay time.Duration
}

func NewBrowserSource(driver browser.Driver, searchURLTemplate string) *BrowserSource {
	return &BrowserSource{
		driver:      driver,
		searchURL:   searchURLTemplate,
		settleDelay: 2 * time.Second,
	}
}

func (s *BrowserSource) Search(ctx context.Context, query string, maxPrice decimal.Decimal) ([]Listing, error) {
	target := fmt.Sprintf(s.searchURL, url.PathEscape(query))
	fmt.Printf("MARKETPLACE: Searching for '%s'...\n", query)

	if err := s.driver.Navigate(ctx, target); err != nil {
		return nil, fmt.Errorf("search navigation failed: %w", err)
	}

	// Give client-side rendering a moment to paint the result cards.
	select {
	case <-time.After(s.settleDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	raw, err := s.driver.Evaluate(ctx, extractScript)
	if err != nil {
		return nil, fmt.Errorf("listing extraction failed: %w", err)
	}

	listings, err := ParseListings(raw)
	if err != nil {
		return nil, err
	}
	listings = FilterByPrice(listings, maxPrice)

	fmt.Printf("MARKETPLACE: ✓ Extracted %d listings\n", len(listings))
	return listings, nil
}
