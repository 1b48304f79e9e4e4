package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/model"
	"github.com/mdouchement/pricewatch/internal/scraper"
	"github.com/mdouchement/pricewatch/internal/storage"
	"github.com/pkg/errors"
)

// A Checker scrapes a tracked product, refreshes its listing data,
// appends a price point and archives the fetched page.
type Checker struct {
	logger   logger.Logger
	database database.Client
	storage  storage.Backend
	scraper  scraper.Scraper
	ttl      time.Duration
}

// NewChecker returns a new Checker.
func NewChecker(l logger.Logger, db database.Client, s storage.Backend, scr scraper.Scraper, ttl time.Duration) *Checker {
	return &Checker{
		logger:   l.WithPrefix("[checker]"),
		database: db,
		storage:  s,
		scraper:  scr,
		ttl:      ttl,
	}
}

// Check runs a scrape for product and records the outcome.
func (s *Checker) Check(ctx context.Context, product *model.Product) (*scraper.Result, error) {
	result, err := s.scraper.Scrape(ctx, product.URL)
	if err != nil {
		return nil, errors.Wrap(err, "checker")
	}

	if result.Name != "" {
		product.Name = result.Name
	}
	product.CurrentPrice = result.CurrentPrice
	product.OldPrice = result.OldPrice
	product.InStock = result.InStock
	product.CheckedAt = time.Now().UTC()

	if err := s.database.Save(product); err != nil {
		return nil, errors.Wrap(err, "checker: product")
	}

	point := &model.PricePoint{
		ProductID: product.ID,
		Price:     result.CurrentPrice,
		OldPrice:  result.OldPrice,
		InStock:   result.InStock,
	}
	if err := s.database.Save(point); err != nil {
		return nil, errors.Wrap(err, "checker: price point")
	}

	// A lost snapshot must not void the check, the listing data is already recorded.
	if err := s.archive(product, result); err != nil {
		s.logger.Warnf("could not archive %s: %s", product.URL, err)
	}

	return result, nil
}

// archive stores the fetched HTML and indexes it with a TTL.
func (s *Checker) archive(product *model.Product, result *scraper.Result) error {
	key := uuid.Must(uuid.NewV4()).String() + ".html"

	w, err := s.storage.Writer(product.Domain, key)
	if err != nil {
		return errors.Wrap(err, "archive")
	}

	if _, err = w.Write([]byte(result.HTML)); err != nil {
		w.Close()
		return errors.Wrap(err, "archive")
	}
	if err = w.Close(); err != nil {
		return errors.Wrap(err, "archive")
	}

	snapshot := &model.Snapshot{
		ProductID: product.ID,
		Domain:    product.Domain,
		Key:       key,
		Size:      int64(len(result.HTML)),
		Fetcher:   result.Fetcher,
		TTL:       time.Now().UTC().Add(s.ttl),
	}
	return errors.Wrap(s.database.Save(snapshot), "archive")
}
