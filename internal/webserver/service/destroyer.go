package service

import (
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/model"
	"github.com/mdouchement/pricewatch/internal/storage"
	"github.com/pkg/errors"
)

// A Destroyer removes a product with its price history and archived snapshots.
type Destroyer struct {
	database database.Client
	storage  storage.Backend
}

// NewDestroyer returns a new Destroyer.
func NewDestroyer(db database.Client, s storage.Backend) *Destroyer {
	return &Destroyer{
		database: db,
		storage:  s,
	}
}

// Destroy cascades the deletion of product.
func (s *Destroyer) Destroy(product *model.Product) error {
	snapshots, err := s.database.FindSnapshotsByProductID(product.ID)
	if err != nil && !s.database.IsNotFound(err) {
		return errors.Wrap(err, "destroyer")
	}

	for _, snapshot := range snapshots {
		if err := s.storage.Remove(snapshot.Domain, snapshot.Key); err != nil {
			return errors.Wrap(err, "destroyer")
		}

		if err := s.database.DeleteSnapshot(snapshot.ID); err != nil {
			return errors.Wrap(err, "destroyer")
		}
	}

	err = s.database.DeletePricePointsByProductID(product.ID)
	if err != nil && !s.database.IsNotFound(err) {
		return errors.Wrap(err, "destroyer")
	}

	// The domain directory goes too when no other product archives under it.
	if !s.domainShared(product) {
		if err := s.storage.RemoveAll(product.Domain); err != nil {
			return errors.Wrap(err, "destroyer")
		}
	}

	return errors.Wrap(s.database.DeleteProduct(product.ID), "destroyer")
}

func (s *Destroyer) domainShared(product *model.Product) bool {
	products, err := s.database.ListProducts()
	if err != nil {
		return true // keep the directory when in doubt
	}

	for _, p := range products {
		if p.ID != product.ID && p.Domain == product.Domain {
			return true
		}
	}
	return false
}
