package negotiation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinStrategies(t *testing.T) {
	ack, err := LoadStrategy("ackerman", "")
	require.NoError(t, err)
	assert.Equal(t, 4, ack.MaxRounds())
	assert.Equal(t, int64(65), ack.PercentOf(1))
	assert.Equal(t, int64(100), ack.PercentOf(4))

	cons, err := LoadStrategy("conservative", "")
	require.NoError(t, err)
	assert.Equal(t, 3, cons.MaxRounds())

	_, err = LoadStrategy("scorched_earth", "")
	assert.Error(t, err)
}

func TestPercentOfClampsToPlateau(t *testing.T) {
	s, err := LoadStrategy("ackerman", "")
	require.NoError(t, err)

	assert.Equal(t, int64(65), s.PercentOf(0))
	assert.Equal(t, int64(100), s.PercentOf(99))
}

func TestOfferForRoundsToCents(t *testing.T) {
	s, err := LoadStrategy("ackerman", "")
	require.NoError(t, err)

	price := decimal.RequireFromString("333.33")
	// 65% of 333.33 is 216.6645, rounded to 216.66.
	assert.Equal(t, "216.66", s.OfferFor(price, 1).StringFixed(2))
}

func TestLoadStrategyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	data := "aggressive: [40, 70, 90]\nbroken: [50, 50]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := LoadStrategy("aggressive", path)
	require.NoError(t, err)
	assert.Equal(t, []int64{40, 70, 90}, s.Percentages)

	_, err = LoadStrategy("broken", path)
	assert.Error(t, err, "non-increasing table must be rejected")

	// Names absent from the file fall back to the built-ins.
	s, err = LoadStrategy("ackerman", path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.MaxRounds())
}
