package serializer

import (
	"github.com/mdouchement/pricewatch/internal/model"
)

// PricePoints returns the serialized form of the given models.
func PricePoints(points []*model.PricePoint) []map[string]interface{} {
	sl := make([]map[string]interface{}, 0, len(points))

	for _, point := range points {
		sl = append(sl, PricePoint(point))
	}

	return sl
}

// PricePoint returns the serialized form of the given model.
func PricePoint(point *model.PricePoint) map[string]interface{} {
	return map[string]interface{}{
		"id":          point.ID,
		"price":       point.Price,
		"old_price":   point.OldPrice,
		"in_stock":    point.InStock,
		"recorded_at": point.CreatedAt,
	}
}
