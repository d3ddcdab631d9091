package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
)

// Reporter accumulates a per-round trace of one negotiation session and
// prints the final report when it ends, whatever the exit reason.
type Reporter struct {
	listing string
	start   time.Time
	trace   []string
}

func NewReporter(listing string) *Reporter {
	return &Reporter{listing: listing, start: time.Now()}
}

func (r *Reporter) Offer(round int, offer decimal.Decimal, delivered bool) {
	status := "sent"
	if !delivered {
		status = "SEND FAILED"
	}
	r.trace = append(r.trace, fmt.Sprintf(
		"ROUND %d | offer $%s | %s", round, offer.StringFixed(2), status))
}

func (r *Reporter) Reply(round int, reply string) {
	r.trace = append(r.trace, fmt.Sprintf("ROUND %d | seller: %s", round, reply))
}

func (r *Reporter) Silence(round int, waited time.Duration) {
	r.trace = append(r.trace, fmt.Sprintf("ROUND %d | no reply after %s", round, waited))
}

func (r *Reporter) Print(n *negotiation.Negotiation, reason string) {
	duration := time.Since(r.start).Truncate(time.Millisecond)

	fmt.Println("\n===== NEGOTIATION REPORT =====")
	fmt.Printf("Listing: %s (listed $%s)\n", r.listing, n.Listing.Price.StringFixed(2))
	fmt.Printf("Duration: %s\n", duration)
	fmt.Printf("Rounds played: %d\n", n.CurrentRound)
	fmt.Printf("Exit reason: %s\n", reason)
	if n.FinalPrice != nil {
		saved := n.Listing.Price.Sub(*n.FinalPrice)
		fmt.Printf("Final price: $%s (saved $%s)\n",
			n.FinalPrice.StringFixed(2), saved.StringFixed(2))
	}

	fmt.Println("\n--- ROUND TRACE ---")
	if len(r.trace) == 0 {
		fmt.Println("(no rounds recorded)")
	}
	for _, line := range r.trace {
		fmt.Println(line)
	}
	fmt.Println(strings.Repeat("=", 30))
}
