package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
)

func TestPebbleStoreRoundTrip(t *testing.T) {
	s, err := OpenPebbleStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	n := sampleNegotiation("gamer88", "PS5 Console")
	price := decimal.RequireFromString("420")
	n.Status = negotiation.StatusAccepted
	n.FinalPrice = &price
	require.NoError(t, s.Save(n))

	got, found, err := s.Load(n.Key())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, negotiation.StatusAccepted, got.Status)
	require.NotNil(t, got.FinalPrice)
	assert.True(t, got.FinalPrice.Equal(price))

	_, found, err = s.Load("missing_key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPebbleStoreLoadAll(t *testing.T) {
	s, err := OpenPebbleStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(sampleNegotiation("alice", "Desk")))
	require.NoError(t, s.Save(sampleNegotiation("bob", "Chair")))

	all, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Desk", all["alice_Desk"].Listing.Title)
	assert.Equal(t, "Chair", all["bob_Chair"].Listing.Title)
}

func TestPebbleStoreReloadReproducesTranscript(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenPebbleStore(dir)
	require.NoError(t, err)
	n := playedNegotiation()
	require.NoError(t, s.Save(n))
	require.NoError(t, s.Close())

	s2, err := OpenPebbleStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	got, found, err := s2.Load(n.Key())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, n.Messages, got.Messages)
	assert.Equal(t, n.CurrentRound, got.CurrentRound)
	assert.Equal(t, n.Status, got.Status)
}

func TestPebbleStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenPebbleStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleNegotiation("dana", "Monitor")))
	require.NoError(t, s.Close())

	s2, err := OpenPebbleStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	_, found, err := s2.Load("dana_Monitor")
	require.NoError(t, err)
	assert.True(t, found)
}
