package database

import (
	"github.com/mdouchement/pricewatch/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is nil or a not found error.
		IsNotFound(err error) bool

		ProductInteraction
		PricePointInteraction
		SnapshotInteraction
	}

	// A ProductInteraction defines all the methods used to interact with a product record.
	ProductInteraction interface {
		ListProducts() ([]*model.Product, error)
		FindProduct(id string) (*model.Product, error)
		FindProductByURL(url string) (*model.Product, error)
		DeleteProduct(id string) error
	}

	// A PricePointInteraction defines all the methods used to interact with a price point record.
	PricePointInteraction interface {
		FindPricePointsByProductID(id string) ([]*model.PricePoint, error)
		DeletePricePointsByProductID(id string) error
	}

	// A SnapshotInteraction defines all the methods used to interact with a snapshot record.
	SnapshotInteraction interface {
		AllSnapshots() ([]*model.Snapshot, error)
		FindSnapshot(id string) (*model.Snapshot, error)
		FindSnapshotsByProductID(id string) ([]*model.Snapshot, error)
		DeleteSnapshot(id string) error
	}
)
