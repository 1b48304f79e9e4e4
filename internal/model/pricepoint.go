package model

// A PricePoint records the listing observed by a single check of a product.
type PricePoint struct {
	Base `json:",inline" storm:"inline"`

	ProductID string `json:"product_id" storm:"index"`

	Price    string `json:"price"`
	OldPrice string `json:"old_price"`
	InStock  bool   `json:"in_stock"`
}
