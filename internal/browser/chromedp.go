package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpDriver drives Chrome over CDP directly. Functionally equivalent
// to the playwright backend but with no driver download step.
type ChromedpDriver struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewChromedpDriver(headless bool) (*ChromedpDriver, error) {
	userDataDir, _ := os.Getwd()
	userDataDir = filepath.Join(userDataDir, ".chromedp_data")

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("start-maximized", true),
		chromedp.UserDataDir(userDataDir),
		chromedp.WindowSize(1280, 800),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Force browser start now so a broken Chrome install fails fast.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome failed: %w", err)
	}

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return &ChromedpDriver{ctx: ctx, cancel: cancel}, nil
}

func (d *ChromedpDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(d.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (d *ChromedpDriver) Evaluate(ctx context.Context, script string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var res string
	if err := chromedp.Run(d.ctx, chromedp.Evaluate(script, &res)); err != nil {
		return "", fmt.Errorf("js evaluation failed: %w", err)
	}
	return res, nil
}

func (d *ChromedpDriver) Fill(ctx context.Context, selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(d.ctx,
		chromedp.Focus(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
}

func (d *ChromedpDriver) Press(ctx context.Context, selector, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "Enter" {
		key = "\r"
	}
	return chromedp.Run(d.ctx,
		chromedp.Focus(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, key, chromedp.ByQuery),
	)
}

func (d *ChromedpDriver) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(d.ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (d *ChromedpDriver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	waitCtx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	return chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (d *ChromedpDriver) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var url string
	if err := chromedp.Run(d.ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (d *ChromedpDriver) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf []byte
	err := chromedp.Run(d.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = cdppage.CaptureScreenshot().
			WithFormat(cdppage.CaptureScreenshotFormatJpeg).
			WithQuality(70).
			Do(ctx)
		return err
	}))
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func (d *ChromedpDriver) Close() error {
	d.cancel()
	return nil
}
