package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/mdouchement/pricewatch/internal/pricing"
	"github.com/mdouchement/pricewatch/internal/selector"
	"github.com/pkg/errors"
)

// selectorBudget is the time granted to each configured selector to
// yield a stable text on a page that is still rendering.
const selectorBudget = 20 * time.Second

type (
	// A Browser drives a shared headless Chromium used to fetch
	// JS-rendered shop pages. Extractions run in isolated incognito
	// contexts and their parallelism is capped.
	Browser struct {
		browser *rod.Browser
		tokens  chan struct{}
	}

	// pageExtract holds the raw texts captured on a live page.
	pageExtract struct {
		name         string
		priceText    string
		oldPriceText string
		html         string
	}
)

// LaunchBrowser starts a headless Chromium and connects to it.
func LaunchBrowser(maxParallel int) (*Browser, error) {
	if maxParallel < 1 {
		maxParallel = 1
	}

	url, err := launcher.New().
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Launch()
	if err != nil {
		return nil, errors.Wrap(err, "could not launch browser")
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, errors.Wrap(err, "could not connect to browser")
	}

	return &Browser{
		browser: browser,
		tokens:  make(chan struct{}, maxParallel),
	}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	return errors.Wrap(b.browser.Close(), "could not close browser")
}

// Extract loads url in a fresh incognito context, captures the texts of
// the configured selectors and returns them with the full page HTML.
func (b *Browser) Extract(ctx context.Context, url string, site *selector.Site) (*pageExtract, error) {
	select {
	case b.tokens <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-b.tokens }()

	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, errors.Wrap(err, "could not open incognito context")
	}
	// The context must be disposed with its pages, it outlives them in
	// the shared browser otherwise.
	defer proto.TargetDisposeBrowserContext{
		BrowserContextID: incognito.BrowserContextID,
	}.Call(b.browser)

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errors.Wrap(err, "could not open page")
	}
	defer page.Close()
	page = page.Context(ctx)

	cleanup, err := page.SetExtraHeaders([]string{
		"User-Agent", userAgent,
		"Accept-Language", acceptLanguage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not set headers")
	}
	defer cleanup()

	if err := page.Timeout(time.Minute).Navigate(url); err != nil {
		return nil, errors.Wrap(err, "could not navigate")
	}
	// A slow shop is not an error, extraction polls below.
	page.Timeout(30 * time.Second).WaitLoad()
	time.Sleep(500 * time.Millisecond)

	extract := new(pageExtract)
	if site != nil {
		extract.name = b.pollText(page, site.Name, pricing.ValidName)
		extract.priceText = b.pollText(page, site.Price, pricing.PriceCandidate)
		extract.oldPriceText = b.firstText(page, site.OldPrice, pricing.PriceCandidate)
	}

	extract.html, err = page.HTML()
	if err != nil {
		return nil, errors.Wrap(err, "could not read page html")
	}
	return extract, nil
}

// pollText waits on each selector for a text accepted by the given
// predicate, moving to the next selector when the budget is spent.
func (b *Browser) pollText(page *rod.Page, selectors []string, accept func(string) bool) string {
	for _, sel := range selectors {
		element, err := page.Sleeper(rod.NotFoundSleeper).Element(sel)
		if err != nil {
			continue
		}

		deadline := time.Now().Add(selectorBudget)
		for time.Now().Before(deadline) {
			if text, err := element.Text(); err == nil {
				text = strings.TrimSpace(text)
				if accept(text) {
					return text
				}
			}
			time.Sleep(300 * time.Millisecond)
		}
	}
	return ""
}

// firstText takes the current text of the first matching selector, without polling.
func (b *Browser) firstText(page *rod.Page, selectors []string, accept func(string) bool) string {
	for _, sel := range selectors {
		element, err := page.Sleeper(rod.NotFoundSleeper).Element(sel)
		if err != nil {
			continue
		}

		if text, err := element.Text(); err == nil {
			text = strings.TrimSpace(text)
			if accept(text) {
				return text
			}
		}
	}
	return ""
}
