package model

import "time"

// A Product is a tracked e-commerce product page.
type Product struct {
	Base `json:",inline" storm:"inline"`

	URL    string `json:"url"    storm:"unique"`
	Domain string `json:"domain" storm:"index"`

	// Listing data refreshed by the latest check.
	Name         string    `json:"name"`
	CurrentPrice string    `json:"current_price"`
	OldPrice     string    `json:"old_price"`
	InStock      bool      `json:"in_stock"`
	CheckedAt    time.Time `json:"checked_at"`
}
