// Package scraper fetches e-commerce product pages and extracts their
// listing data. Pages are fetched through a headless browser when one is
// available, since most shops render prices client side, and through a
// plain HTTP GET otherwise.
package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/pricing"
	"github.com/mdouchement/pricewatch/internal/selector"
	"github.com/pkg/errors"
)

// Fetchers recorded in a Result.
const (
	FetcherBrowser = "browser"
	FetcherStatic  = "static"
)

// Below these sizes, a payload is a bot-wall stub or an empty shell
// and the fetch is retried.
const (
	minBrowserHTML = 200
	minStaticHTML  = 100
)

type (
	// A Scraper fetches a product page and extracts its listing data.
	Scraper interface {
		Scrape(ctx context.Context, url string) (*Result, error)
	}

	// A Result is the outcome of a product page scrape.
	// Name, CurrentPrice and OldPrice are empty when extraction failed.
	Result struct {
		Name         string
		CurrentPrice string
		OldPrice     string
		InStock      bool
		HTML         string
		Fetcher      string
	}

	// A Robust is a Scraper that tries the browser tier first and falls
	// back on plain HTTP fetches.
	Robust struct {
		logger          logger.Logger
		selectors       selector.Config
		browser         *Browser
		client          *http.Client
		browserAttempts int
		staticAttempts  int
	}

	// RobustConfig is used to init a Robust scraper.
	RobustConfig struct {
		Logger    logger.Logger
		Selectors selector.Config
		// Browser is optional. When nil, only the static tier runs.
		Browser         *Browser
		BrowserAttempts int
	}
)

// NewRobust returns a new Robust scraper.
func NewRobust(config RobustConfig) *Robust {
	attempts := config.BrowserAttempts
	if attempts < 1 {
		attempts = 2
	}

	return &Robust{
		logger:    config.Logger.WithPrefix("[scraper]"),
		selectors: config.Selectors,
		browser:   config.Browser,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		browserAttempts: attempts,
		staticAttempts:  2,
	}
}

// Scrape fetches url and extracts its product listing.
func (s *Robust) Scrape(ctx context.Context, url string) (*Result, error) {
	domain, site := s.selectors.Match(url)
	if site != nil {
		s.logger.Debugf("using %s selectors for %s", domain, url)
	}

	var extract pageExtract
	result := &Result{InStock: true}

	if s.browser != nil {
		for attempt := 1; attempt <= s.browserAttempts; attempt++ {
			e, err := s.browser.Extract(ctx, url, site)
			if err == nil && len(e.html) > minBrowserHTML {
				extract = *e
				result.HTML = e.html
				result.Fetcher = FetcherBrowser
				break
			}
			if err != nil {
				s.logger.Warnf("browser attempt %d failed for %s: %s", attempt, url, err)
			}

			if err := backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	if result.HTML == "" {
		var lasterr error
		for attempt := 1; attempt <= s.staticAttempts; attempt++ {
			html, err := fetchHTML(ctx, s.client, url)
			if err == nil && len(html) > minStaticHTML {
				result.HTML = html
				result.Fetcher = FetcherStatic
				break
			}
			if err != nil {
				lasterr = err
			}

			if err := backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		if result.HTML == "" {
			if lasterr == nil {
				lasterr = errors.Errorf("no usable payload for %s", url)
			}
			return nil, errors.Wrap(lasterr, "scraper")
		}
	}

	if pricing.ValidName(extract.name) {
		result.Name = extract.name
	}
	if price, ok := pricing.Normalize(extract.priceText); ok {
		result.CurrentPrice = price
	}
	if price, ok := pricing.Normalize(extract.oldPriceText); ok {
		result.OldPrice = price
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, errors.Wrap(err, "scraper: could not parse html")
	}

	fillFromDocument(doc, site, result)
	if outOfStock(doc, site) {
		result.InStock = false
	}
	return result, nil
}

// backoff waits longer after each failed attempt.
func backoff(ctx context.Context, attempt int) error {
	select {
	case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
