package model

import "time"

// A Snapshot references the raw HTML archived on the filesystem during a fetch.
type Snapshot struct {
	Base `json:",inline" storm:"inline"`

	ProductID string `json:"product_id" storm:"index"`

	Domain  string    `json:"domain"`
	Key     string    `json:"key"     storm:"index"`
	Size    int64     `json:"size"`
	Fetcher string    `json:"fetcher"`
	TTL     time.Time `json:"ttl"     storm:"index"`
}
