package serializer

import (
	"github.com/mdouchement/pricewatch/internal/scraper"
)

// Placeholders rendered when extraction found nothing usable.
// The mobile client displays them as-is.
const (
	UnknownName  = "Невідома назва"
	UnknownPrice = "Невідома ціна"
)

// Parse returns the serialized form of a scrape result.
func Parse(result *scraper.Result) map[string]interface{} {
	payload := map[string]interface{}{
		"name":         UnknownName,
		"currentPrice": UnknownPrice,
		"oldPrice":     nil,
		"inStock":      result.InStock,
	}

	if result.Name != "" {
		payload["name"] = result.Name
	}
	if result.CurrentPrice != "" {
		payload["currentPrice"] = result.CurrentPrice
	}
	if result.OldPrice != "" {
		payload["oldPrice"] = result.OldPrice
	}
	return payload
}

// FailedParse returns the payload rendered when the page could not be fetched.
func FailedParse() map[string]interface{} {
	return map[string]interface{}{
		"name":         UnknownName,
		"currentPrice": UnknownPrice,
		"oldPrice":     nil,
		"inStock":      false,
	}
}
