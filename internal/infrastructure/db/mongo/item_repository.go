package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
)

const (
	collectionItems    = "items"
	collectionCounters = "counters"
	itemsSequence      = "items"
)

var sortKeys = map[ports.SortField]string{
	ports.SortByID:        "_id",
	ports.SortByName:      "name",
	ports.SortByCreatedAt: "created_at",
	ports.SortByUpdatedAt: "updated_at",
}

// ItemRepository implements ports.ItemStore using MongoDB. Item IDs come from
// a counters document so they stay numeric across drivers.
type ItemRepository struct {
	db       *mongo.Database
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{
		db:       db,
		col:      db.Collection(collectionItems),
		counters: db.Collection(collectionCounters),
	}
}

// Create allocates the next ID and inserts the item document.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	item.ID = id

	if _, err := r.col.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": itemsSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate item id: %w", err)
	}
	return counter.Seq, nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var item domain.Item
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	normalize(&item)
	return &item, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{
		"$set": bson.M{
			"name":        item.Name,
			"description": item.Description,
			"updated_at":  item.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// List pages through items; ties on the sort key are broken by _id.
func (r *ItemRepository) List(ctx context.Context, page ports.PageRequest) ([]*domain.Item, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	key, ok := sortKeys[page.Sort]
	if !ok {
		key = "_id"
	}
	dir := 1
	if page.Descending {
		dir = -1
	}
	sort := bson.D{{Key: key, Value: dir}}
	if key != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find items: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Item, 0, page.Size)
	for cur.Next(ctx) {
		var item domain.Item
		if err := cur.Decode(&item); err != nil {
			return nil, 0, fmt.Errorf("decode item: %w", err)
		}
		normalize(&item)
		items = append(items, &item)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("find items: %w", err)
	}
	return items, total, nil
}

func (r *ItemRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// WithinTx runs fn against the same repository. Every write touches a single
// document, so standalone deployments without sessions are supported.
func (r *ItemRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, repo ports.ItemRepository) error) error {
	return fn(ctx, r)
}

// EnsureIndexes creates the secondary indexes used for sorting.
func (r *ItemRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// normalize returns timestamps in UTC. BSON datetimes keep milliseconds only.
func normalize(item *domain.Item) {
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
}
