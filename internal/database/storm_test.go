package database_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/model"
	"github.com/stretchr/testify/assert"
)

func opendb(t *testing.T) database.Client {
	dbname := filepath.Join(t.TempDir(), "pricewatch.db")

	err := database.StormInit(dbname)
	assert.NoError(t, err)

	db, err := database.StormOpen(dbname)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestStormSave(t *testing.T) {
	db := opendb(t)

	product := &model.Product{
		URL:    "https://rozetka.com.ua/ua/p12345/",
		Domain: "rozetka.com.ua",
	}
	err := db.Save(product)
	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.False(t, product.UpdatedAt.IsZero())

	//

	found, err := db.FindProduct(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, product.URL, found.URL)

	found, err = db.FindProductByURL(product.URL)
	assert.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	//

	products, err := db.ListProducts()
	assert.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestStormUniqueURL(t *testing.T) {
	db := opendb(t)

	err := db.Save(&model.Product{URL: "https://allo.ua/p1", Domain: "allo.ua"})
	assert.NoError(t, err)

	err = db.Save(&model.Product{URL: "https://allo.ua/p1", Domain: "allo.ua"})
	assert.Error(t, err)
}

func TestStormIsNotFound(t *testing.T) {
	db := opendb(t)

	_, err := db.FindProduct("nope")
	assert.True(t, db.IsNotFound(err))

	_, err = db.FindSnapshot("nope")
	assert.True(t, db.IsNotFound(err))
}

func TestStormPricePoints(t *testing.T) {
	db := opendb(t)

	product := &model.Product{URL: "https://allo.ua/p1", Domain: "allo.ua"}
	assert.NoError(t, db.Save(product))

	for _, price := range []string{"100", "90", "95"} {
		err := db.Save(&model.PricePoint{ProductID: product.ID, Price: price, InStock: true})
		assert.NoError(t, err)
		time.Sleep(5 * time.Millisecond) // distinct CreatedAt for ordering
	}

	points, err := db.FindPricePointsByProductID(product.ID)
	assert.NoError(t, err)
	assert.Len(t, points, 3)
	assert.Equal(t, "100", points[0].Price)
	assert.Equal(t, "90", points[1].Price)
	assert.Equal(t, "95", points[2].Price)

	//

	err = db.DeletePricePointsByProductID(product.ID)
	assert.NoError(t, err)

	_, err = db.FindPricePointsByProductID(product.ID)
	assert.True(t, db.IsNotFound(err))
}

func TestStormSnapshots(t *testing.T) {
	db := opendb(t)

	product := &model.Product{URL: "https://allo.ua/p1", Domain: "allo.ua"}
	assert.NoError(t, db.Save(product))

	snapshot := &model.Snapshot{
		ProductID: product.ID,
		Domain:    product.Domain,
		Key:       "abc.html",
		Size:      42,
		Fetcher:   "static",
		TTL:       time.Now().UTC().Add(time.Hour),
	}
	assert.NoError(t, db.Save(snapshot))

	snapshots, err := db.AllSnapshots()
	assert.NoError(t, err)
	assert.Len(t, snapshots, 1)

	snapshots, err = db.FindSnapshotsByProductID(product.ID)
	assert.NoError(t, err)
	assert.Len(t, snapshots, 1)
	assert.Equal(t, "abc.html", snapshots[0].Key)

	//

	assert.NoError(t, db.Delete(snapshot))
	snapshots, err = db.AllSnapshots()
	assert.NoError(t, err)
	assert.Empty(t, snapshots)
}
