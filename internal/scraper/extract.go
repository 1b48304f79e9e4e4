package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mdouchement/pricewatch/internal/pricing"
	"github.com/mdouchement/pricewatch/internal/selector"
)

// Universal fallbacks, tried when the configured selectors yield nothing.
// Most shops expose their listing through microdata or Open Graph tags.
var (
	universalPrice = []string{"[itemprop*='price']", "meta[property*='price']"}
	universalName  = []string{"[itemprop*='name']", "title", "h1", "h2", "h3"}
)

// fillFromDocument completes the missing fields of result from the
// fetched HTML: configured selectors first, universal fallbacks last.
func fillFromDocument(doc *goquery.Document, site *selector.Site, result *Result) {
	if site != nil {
		if result.Name == "" {
			result.Name = firstMatch(doc, site.Name, pricing.ValidName)
		}
		if result.CurrentPrice == "" {
			result.CurrentPrice = firstPrice(doc, site.Price)
		}
		if result.OldPrice == "" {
			result.OldPrice = firstPrice(doc, site.OldPrice)
		}
	}

	if result.CurrentPrice == "" {
		result.CurrentPrice = firstPrice(doc, universalPrice)
	}
	if result.Name == "" {
		result.Name = firstMatch(doc, universalName, func(text string) bool {
			// A currency marker means a price block, not a name.
			return pricing.ValidName(text) && !pricing.ContainsCurrency(text)
		})
	}
}

// firstPrice returns the first normalizable price found by selectors.
func firstPrice(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		text := nodeText(doc.Find(sel).First())
		if !pricing.PriceCandidate(text) {
			continue
		}
		if price, ok := pricing.Normalize(text); ok {
			return price
		}
	}
	return ""
}

// firstMatch returns the first text found by selectors that the predicate accepts.
func firstMatch(doc *goquery.Document, selectors []string, accept func(string) bool) string {
	for _, sel := range selectors {
		text := nodeText(doc.Find(sel).First())
		if accept(text) {
			return text
		}
	}
	return ""
}

// nodeText extracts the text carried by a node. Meta tags and
// data-attributes hide their value outside the node text.
func nodeText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	if goquery.NodeName(s) == "meta" {
		for _, attr := range []string{"content", "value"} {
			if v, ok := s.Attr(attr); ok && v != "" {
				return v
			}
		}
	}

	for _, attr := range []string{"data-price", "data-product-price", "content", "value", "title", "alt"} {
		if v, ok := s.Attr(attr); ok && v != "" {
			return v
		}
	}

	return strings.Join(strings.Fields(s.Text()), " ")
}

// outOfStock scans the page body for the configured unavailability phrases.
func outOfStock(doc *goquery.Document, site *selector.Site) bool {
	if site == nil || len(site.OutOfStock) == 0 {
		return false
	}

	body := strings.ToLower(doc.Find("body").Text())
	for _, phrase := range site.OutOfStock {
		if strings.Contains(body, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
