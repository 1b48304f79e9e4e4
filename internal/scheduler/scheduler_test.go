package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/model"
	"github.com/mdouchement/pricewatch/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func seedSnapshot(t *testing.T, db database.Client, backend storage.Backend, key string, ttl time.Time) *model.Snapshot {
	w, err := backend.Writer("allo.ua", key)
	assert.NoError(t, err)
	_, err = w.Write([]byte("<html>page</html>"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	snapshot := &model.Snapshot{
		ProductID: "p1",
		Domain:    "allo.ua",
		Key:       key,
		Size:      17,
		Fetcher:   "static",
		TTL:       ttl,
	}
	assert.NoError(t, db.Save(snapshot))
	return snapshot
}

func TestPurgeExpiredSnapshots(t *testing.T) {
	dbname := filepath.Join(t.TempDir(), "pricewatch.db")
	db, err := database.StormOpen(dbname)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	workspace := t.TempDir()
	backend := storage.NewFileSystem(workspace)

	expired := seedSnapshot(t, db, backend, "expired.html", time.Now().UTC().Add(-time.Minute))
	live := seedSnapshot(t, db, backend, "live.html", time.Now().UTC().Add(time.Hour))
	forever := seedSnapshot(t, db, backend, "forever.html", time.Time{})

	//

	purgeExpiredSnapshots(Controller{
		Logger:   logger.WrapLogrus(logrus.New()),
		Database: db,
		Storage:  backend,
	})

	// Only the expired snapshot is gone, blob and record.
	_, err = db.FindSnapshot(expired.ID)
	assert.True(t, db.IsNotFound(err))
	_, err = os.Stat(filepath.Join(workspace, "allo.ua", "expired.html"))
	assert.True(t, os.IsNotExist(err))

	_, err = db.FindSnapshot(live.ID)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(workspace, "allo.ua", "live.html"))
	assert.NoError(t, err)

	// A zero TTL means keep forever.
	_, err = db.FindSnapshot(forever.ID)
	assert.NoError(t, err)
}

func TestPurgeExpiredSnapshotsCleansEmptyDomains(t *testing.T) {
	dbname := filepath.Join(t.TempDir(), "pricewatch.db")
	db, err := database.StormOpen(dbname)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	workspace := t.TempDir()
	backend := storage.NewFileSystem(workspace)

	seedSnapshot(t, db, backend, "expired.html", time.Now().UTC().Add(-time.Minute))

	purgeExpiredSnapshots(Controller{
		Logger:   logger.WrapLogrus(logrus.New()),
		Database: db,
		Storage:  backend,
	})

	// The emptied domain directory is swept by the cleanup pass.
	_, err = os.Stat(filepath.Join(workspace, "allo.ua"))
	assert.True(t, os.IsNotExist(err))
}
