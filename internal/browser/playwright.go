package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	LoadStateLoad             = "load"
	LoadStateDomcontentloaded = "domcontentloaded"
	LoadStateNetworkidle      = "networkidle"
)

// PlaywrightDriver owns a persistent Chromium context so login sessions
// survive restarts.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	Context playwright.BrowserContext
	Page    playwright.Page
}

func NewPlaywrightDriver(headless bool) (*PlaywrightDriver, error) {
	if err := playwright.Install(); err != nil {
		return nil, fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start pw failed: %w", err)
	}

	userDataDir, _ := os.Getwd()
	userDataDir = filepath.Join(userDataDir, ".playwright_data")

	ctx, err := pw.Chromium.LaunchPersistentContext(
		userDataDir,
		playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(headless),
			Viewport: &playwright.Size{Width: 1280, Height: 800},
			Locale:   playwright.String("en-SG"),
			Args: []string{
				"--start-maximized",
				"--window-position=0,0",
			},
		},
	)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	var page playwright.Page
	pages := ctx.Pages()
	if len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = ctx.NewPage()
		if err != nil {
			_ = ctx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	page.SetDefaultTimeout(60000)
	page.SetDefaultNavigationTimeout(60000)

	return &PlaywrightDriver{pw: pw, Context: ctx, Page: page}, nil
}

func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.Page.Goto(url); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	state := playwright.LoadState(LoadStateDomcontentloaded)
	_ = d.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: &state})
	return nil
}

func (d *PlaywrightDriver) Evaluate(ctx context.Context, script string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	result, err := d.Page.Evaluate(script)
	if err != nil {
		return "", fmt.Errorf("js evaluation failed: %w", err)
	}
	if result == nil {
		return "", nil
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("expected string from js, got %T", result)
	}
	return s, nil
}

func (d *PlaywrightDriver) Fill(ctx context.Context, selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Page.Fill(selector, text)
}

func (d *PlaywrightDriver) Press(ctx context.Context, selector, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Page.Press(selector, key)
}

func (d *PlaywrightDriver) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.Page.Locator(selector).First().ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return d.Page.Click(selector)
}

func (d *PlaywrightDriver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (d *PlaywrightDriver) URL(ctx context.Context) (string, error) {
	return d.Page.URL(), nil
}

func (d *PlaywrightDriver) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:    playwright.String(path),
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(70),
	})
	return err
}

func (d *PlaywrightDriver) Close() error {
	if d.Context != nil {
		_ = d.Context.Close()
	}
	if d.pw != nil {
		_ = d.pw.Stop()
	}
	return nil
}
