package negotiation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPrice(t *testing.T) {
	x := NewPriceExtractor()

	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"dollar sign", "ok can do $480", "480", true},
		{"sgd prefix", "lowest is S$1,200.50", "1200.5", true},
		{"spaced", "how about $ 75?", "75", true},
		{"bare number", "700", "700", true},
		{"bare decimal", "699.99", "699.99", true},
		{"no price", "sorry, price is firm", "", false},
		{"model number ignored", "this is the iPhone 14 Pro", "", false},
		{"number in sentence ignored", "I bought it 2 years ago", "", false},
		{"empty", "   ", "", false},
		{"zero rejected", "$0", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := x.Extract(tt.text)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestExtractWithCustomPattern(t *testing.T) {
	x, err := NewPriceExtractorPattern(`€\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	require.NoError(t, err)

	got, found := x.Extract("ich kann € 45 machen")
	require.True(t, found)
	assert.Equal(t, "45", got.String())

	_, found = x.Extract("can do $45")
	assert.False(t, found, "custom pattern replaces the default, not extends it")

	_, err = NewPriceExtractorPattern(`€[`)
	assert.Error(t, err)
}
