package serializer

import (
	"strings"

	"github.com/mdouchement/pricewatch/internal/model"
)

// TextProducts returns the text serialized form of the given models.
func TextProducts(products []*model.Product) string {
	sl := make([]string, 0, len(products))

	for _, product := range products {
		sl = append(sl, product.URL)
	}

	return strings.Join(sl, "\n")
}

// Products returns the serialized form of the given models.
func Products(products []*model.Product) []map[string]interface{} {
	sl := make([]map[string]interface{}, 0, len(products))

	for _, product := range products {
		sl = append(sl, Product(product))
	}

	return sl
}

// Product returns the serialized form of the given model.
func Product(product *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":            product.ID,
		"url":           product.URL,
		"domain":        product.Domain,
		"name":          product.Name,
		"current_price": product.CurrentPrice,
		"old_price":     product.OldPrice,
		"in_stock":      product.InStock,
		"checked_at":    product.CheckedAt,
		"last_updated":  product.UpdatedAt,
	}
}
