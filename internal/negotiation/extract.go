package negotiation

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// defaultCurrencyPattern matches a price carrying a currency marker,
// e.g. "$480", "S$ 1,200", "can do $700 lah".
const defaultCurrencyPattern = `S?\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`

// barePattern accepts a reply that is nothing but a number ("700").
var barePattern = regexp.MustCompile(`^([0-9][0-9,]*(?:\.[0-9]{1,2})?)$`)

// PriceExtractor pulls a numeric price out of seller free text. It is the
// only accepted-deal signal the engine acts on; sentiment never changes
// state. The currency pattern is configurable so marketplace-specific
// formats can be swapped in without touching the state machine.
type PriceExtractor struct {
	currency *regexp.Regexp
}

func NewPriceExtractor() *PriceExtractor {
	return &PriceExtractor{currency: regexp.MustCompile(defaultCurrencyPattern)}
}

// NewPriceExtractorPattern builds an extractor from a custom pattern.
// The pattern must contain exactly one capture group for the numeric part.
func NewPriceExtractorPattern(pattern string) (*PriceExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &PriceExtractor{currency: re}, nil
}

// Extract returns the first price found in text, if any. A reply that is a
// bare number counts; digits embedded in ordinary words ("iPhone 14") do not.
func (x *PriceExtractor) Extract(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, false
	}

	var raw string
	if m := x.currency.FindStringSubmatch(text); len(m) >= 2 {
		raw = m[1]
	} else if m := barePattern.FindStringSubmatch(text); len(m) >= 2 {
		raw = m[1]
	} else {
		return decimal.Zero, false
	}

	raw = strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
