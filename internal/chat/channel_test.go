package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowball-labs/go-lowball-agent/internal/marketplace"
)

// fakeDriver simulates the page: a settable transcript, a set of
// selectors that exist, and a record of fills and key presses.
type fakeDriver struct {
	transcript []scrapedMessage
	selectors  map[string]bool
	filled     []string
	pressed    []string
	url        string
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error { d.url = url; return nil }

func (d *fakeDriver) Evaluate(context.Context, string) (string, error) {
	b, err := json.Marshal(d.transcript)
	return string(b), err
}

func (d *fakeDriver) Fill(_ context.Context, sel, text string) error {
	d.filled = append(d.filled, text)
	return nil
}

func (d *fakeDriver) Press(_ context.Context, sel, key string) error {
	d.pressed = append(d.pressed, key)
	return nil
}

func (d *fakeDriver) Click(context.Context, string) error { return nil }

func (d *fakeDriver) WaitVisible(_ context.Context, sel string, _ time.Duration) error {
	if d.selectors[sel] {
		return nil
	}
	return context.DeadlineExceeded
}

func (d *fakeDriver) URL(context.Context) (string, error) { return d.url, nil }

func (d *fakeDriver) Screenshot(context.Context, string) error { return nil }

func (d *fakeDriver) Close() error { return nil }

func chatListing() marketplace.Listing {
	return marketplace.Listing{
		Title:      "PS5 Console",
		Price:      decimal.RequireFromString("480"),
		SellerID:   "gamer88",
		SourceURL:  "https://x/p/1",
		ChannelRef: "https://x/p/1",
	}
}

func TestOpenBaselinesExistingSellerMessages(t *testing.T) {
	d := &fakeDriver{
		selectors: map[string]bool{`[data-testid="chat-button"]`: true},
		transcript: []scrapedMessage{
			{Role: "seller", Content: "interested?"},
		},
	}
	c := NewBrowserChannel(d, time.Millisecond)

	h, err := c.Open(context.Background(), chatListing())
	require.NoError(t, err)
	assert.Equal(t, 1, h.sellerSeen, "pre-existing seller messages are not replies")
}

func TestOpenFailsWithoutChatButton(t *testing.T) {
	d := &fakeDriver{selectors: map[string]bool{}}
	c := NewBrowserChannel(d, time.Millisecond)

	_, err := c.Open(context.Background(), chatListing())
	assert.Error(t, err)
}

func TestSendFallsBackThroughSelectors(t *testing.T) {
	// Only the generic textarea exists; the specific placeholders do not.
	d := &fakeDriver{selectors: map[string]bool{`textarea`: true}}
	c := NewBrowserChannel(d, time.Millisecond)

	h := &Handle{Listing: chatListing()}
	require.NoError(t, c.Send(context.Background(), h, "hello $65?"))
	assert.Equal(t, []string{"hello $65?"}, d.filled)
	assert.Equal(t, []string{"Enter"}, d.pressed)
}

func TestSendFailsWhenNoInputFound(t *testing.T) {
	d := &fakeDriver{selectors: map[string]bool{}}
	c := NewBrowserChannel(d, time.Millisecond)

	err := c.Send(context.Background(), &Handle{Listing: chatListing()}, "hi")
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestPollReplyReturnsOnlyNewSellerMessages(t *testing.T) {
	d := &fakeDriver{
		transcript: []scrapedMessage{
			{Role: "seller", Content: "interested?"},
			{Role: "buyer", Content: "$65?"},
		},
	}
	c := NewBrowserChannel(d, time.Millisecond)
	h := &Handle{Listing: chatListing(), sellerSeen: 1}

	// Nothing new yet: poll times out cleanly.
	reply, ok, err := c.PollReply(context.Background(), h, 5*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, reply)

	d.transcript = append(d.transcript, scrapedMessage{Role: "seller", Content: "can do $70"})
	reply, ok, err = c.PollReply(context.Background(), h, 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "can do $70", reply)
	assert.Equal(t, 2, h.sellerSeen)
}

func TestPollReplyHonoursCancellation(t *testing.T) {
	d := &fakeDriver{}
	c := NewBrowserChannel(d, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.PollReply(ctx, &Handle{Listing: chatListing()}, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
