// Package selector holds the per-site extraction configuration.
// Each shop is keyed by a domain fragment and lists the CSS selectors
// used to locate the product name and prices, plus the phrases that
// reveal an out of stock listing.
package selector

import (
	"encoding/json"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type (
	// A Config maps a domain key to the extraction rules of that site.
	Config map[string]*Site

	// A Site lists the CSS selectors and phrases used to extract a product listing.
	Site struct {
		Name       []string `json:"name"`
		Price      []string `json:"price"`
		OldPrice   []string `json:"old_price"`
		OutOfStock []string `json:"out_of_stock_text"`
	}
)

// Defaults returns the built-in extraction rules.
func Defaults() Config {
	return Config{
		"rozetka.com.ua": {
			Name: []string{
				"h1.title__font",
				"h1[class*='title__font']",
				"h1.product__title",
				"[itemprop='name']",
			},
			Price: []string{
				"p.product-price__big",
				"p[class*='product-price__big']",
				".product-price__big",
				"p.product-price__main",
				"[itemprop='price']",
				"meta[property='product:price:amount']",
			},
			OldPrice: []string{
				"p.product-price__small",
				"p[class*='product-price__small']",
				".product-price__small",
				".product-price__old",
				".product-old-price",
			},
			OutOfStock: []string{
				"немає в наявності",
				"відсутній",
				"закінчився",
			},
		},
	}
}

// Load reads the config file and merges the built-in defaults under it.
// A missing file is not an error, the defaults alone are returned.
func Load(filename string) (Config, error) {
	config := Defaults()

	payload, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return config, errors.Wrap(err, "could not read selectors file")
	}

	var overrides Config
	if err := json.Unmarshal(payload, &overrides); err != nil {
		return config, errors.Wrap(err, "could not parse selectors file")
	}

	for domain, site := range overrides {
		config[domain] = site
	}
	return config, nil
}

// Match returns the site config whose domain key is contained in url.
func (c Config) Match(url string) (string, *Site) {
	for domain, site := range c {
		if strings.Contains(url, domain) {
			return domain, site
		}
	}
	return "", nil
}

// Domain extracts the hostname of rawurl, without its www prefix.
// It falls back to rawurl when it is not a parsable URL.
func Domain(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil || u.Host == "" {
		return rawurl
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
