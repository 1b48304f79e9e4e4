package scheduler

import (
	"context"
	"path"
	"time"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/storage"
	"github.com/mdouchement/pricewatch/internal/webserver/service"
	"github.com/robfig/cron/v3"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
type Controller struct {
	Logger   logger.Logger
	Database database.Client
	Storage  storage.Backend
	Checker  *service.Checker
	// CheckSpecification schedules the re-check of all tracked products.
	CheckSpecification string
	// PurgeSpecification schedules the removal of expired snapshots.
	PurgeSpecification string
}

// Start lauches the scheduler asynchronously.
func Start(c Controller) {
	cron := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	log := c.Logger.WithPrefix("[scheduler]")

	_, err := cron.AddFunc(c.CheckSpecification, func() {
		log := c.Logger.WithPrefix("[check]")

		products, err := c.Database.ListProducts()
		if err != nil {
			log.Error(err)
			return
		}

		for _, product := range products {
			result, err := c.Checker.Check(context.Background(), product)
			if err != nil {
				log.Errorf("%s: %s", product.URL, err)
				continue
			}

			log.Infof("Checked %s: price %s (in stock: %t)", product.URL, result.CurrentPrice, result.InStock)
		}
	})
	if err != nil {
		panic(err)
	}
	log.Info("Product check task registred")

	_, err = cron.AddFunc(c.PurgeSpecification, func() {
		purgeExpiredSnapshots(c)
	})
	if err != nil {
		panic(err)
	}
	log.Info("TTL snapshot task registred")

	cron.Start()
	log.Info("Scheduler is running")
}

// purgeExpiredSnapshots removes the snapshots past their TTL, blob and
// record, then compacts the archive.
func purgeExpiredSnapshots(c Controller) {
	log := c.Logger.WithPrefix("[TTL]")

	snapshots, err := c.Database.AllSnapshots()
	if err != nil {
		log.Error(err)
		return
	}

	for _, snapshot := range snapshots {
		if snapshot.TTL.IsZero() {
			continue
		}

		if snapshot.TTL.After(time.Now()) {
			continue
		}

		err = c.Storage.Remove(snapshot.Domain, snapshot.Key)
		if err != nil {
			log.Error(err)
			return
		}

		err = c.Database.Delete(snapshot)
		if err != nil {
			log.Error(err)
			return
		}

		log.Infof("Removed %s", path.Join(snapshot.Domain, snapshot.Key))
	}

	err = c.Storage.Cleanup()
	if err != nil {
		log.Error(err)
		return
	}
}
