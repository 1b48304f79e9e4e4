package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/json"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/pricewatch/internal/model"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(json.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.Init(&model.Product{}); err != nil {
		return errors.Wrap(err, "could not init product index")
	}

	if err := db.Init(&model.PricePoint{}); err != nil {
		return errors.Wrap(err, "could not init price point index")
	}

	err = db.Init(&model.Snapshot{})
	return errors.Wrap(err, "could not init snapshot index")
}

// StormReIndex rebuilds the indexes of all the buckets.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.ReIndex(&model.Product{}); err != nil {
		return errors.Wrap(err, "could not ReIndex products")
	}

	if err := db.ReIndex(&model.PricePoint{}); err != nil {
		return errors.Wrap(err, "could not ReIndex price points")
	}

	err = db.ReIndex(&model.Snapshot{})
	return errors.Wrap(err, "could not ReIndex snapshots")
}

// StormOpen opens the database and returns the client.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

func (c *strm) Close() error {
	return c.db.Close()
}

func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

//
// Product
//

func (c *strm) ListProducts() ([]*model.Product, error) {
	products := make([]*model.Product, 0)
	err := c.db.All(&products)
	return products, errors.Wrap(err, "could not get all products")
}

func (c *strm) FindProduct(id string) (*model.Product, error) {
	var product model.Product
	err := c.db.One("ID", id, &product)
	return &product, errors.Wrap(err, "could not find product")
}

func (c *strm) FindProductByURL(url string) (*model.Product, error) {
	var product model.Product
	err := c.db.One("URL", url, &product)
	return &product, errors.Wrap(err, "could not find product")
}

func (c *strm) DeleteProduct(id string) error {
	err := c.db.Select(q.Eq("ID", id)).Delete(&model.Product{})
	return errors.Wrap(err, "could not delete product")
}

//
// PricePoint
//

func (c *strm) FindPricePointsByProductID(id string) ([]*model.PricePoint, error) {
	points := make([]*model.PricePoint, 0)
	err := c.db.Select(q.Eq("ProductID", id)).OrderBy("CreatedAt").Find(&points)
	return points, errors.Wrap(err, "could not get price points by product_id")
}

func (c *strm) DeletePricePointsByProductID(id string) error {
	err := c.db.Select(q.Eq("ProductID", id)).Delete(&model.PricePoint{})
	return errors.Wrap(err, "could not delete price points")
}

//
// Snapshot
//

func (c *strm) AllSnapshots() ([]*model.Snapshot, error) {
	snapshots := make([]*model.Snapshot, 0)
	err := c.db.All(&snapshots)
	return snapshots, errors.Wrap(err, "could not get all snapshots")
}

func (c *strm) FindSnapshot(id string) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	err := c.db.One("ID", id, &snapshot)
	return &snapshot, errors.Wrap(err, "could not find snapshot")
}

func (c *strm) FindSnapshotsByProductID(id string) ([]*model.Snapshot, error) {
	snapshots := make([]*model.Snapshot, 0)
	err := c.db.Select(q.Eq("ProductID", id)).OrderBy("CreatedAt").Find(&snapshots)
	return snapshots, errors.Wrap(err, "could not get snapshots by product_id")
}

func (c *strm) DeleteSnapshot(id string) error {
	err := c.db.Select(q.Eq("ID", id)).Delete(&model.Snapshot{})
	return errors.Wrap(err, "could not delete snapshot")
}
