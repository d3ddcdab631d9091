package e2e

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lowball-labs/go-lowball-agent/internal/browser"
	"github.com/lowball-labs/go-lowball-agent/internal/marketplace"
)

// Live search against the real site. Needs a display or headless Chrome;
// run with LOWBALL_E2E=1.
func TestLiveCarousellSearch(t *testing.T) {
	if os.Getenv("LOWBALL_E2E") == "" {
		t.Skip("LOWBALL_E2E is not set")
	}

	log.Println("🚀 STARTING LIVE SEARCH TEST...")

	d, err := browser.New(browser.BackendPlaywright, true)
	if err != nil {
		t.Fatalf("Failed to init browser: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src := marketplace.NewBrowserSource(d, "https://www.carousell.sg/search/%s")
	listings, err := src.Search(ctx, "nintendo switch", decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(listings) == 0 {
		t.Error("expected at least one listing under $500")
	}

	for _, l := range listings {
		log.Printf("  %s", l.String())
		if !l.Price.IsPositive() {
			t.Errorf("listing %q has non-positive price %s", l.Title, l.Price)
		}
	}
}
