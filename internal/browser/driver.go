package browser

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by New.
const (
	BackendPlaywright = "playwright"
	BackendChromedp   = "chromedp"
)

// Driver is the minimal surface the agent needs from a live browser page.
// Scripts passed to Evaluate are IIFE expressions returning a string
// (usually JSON), so the same scripts work on both backends.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Evaluate(ctx context.Context, script string) (string, error)
	Fill(ctx context.Context, selector, text string) error
	Press(ctx context.Context, selector, key string) error
	Click(ctx context.Context, selector string) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	URL(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// New starts a browser driver for the given backend.
func New(backend string, headless bool) (Driver, error) {
	switch backend {
	case BackendPlaywright, "":
		return NewPlaywrightDriver(headless)
	case BackendChromedp:
		return NewChromedpDriver(headless)
	default:
		return nil, fmt.Errorf("unknown browser backend %q", backend)
	}
}
