package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// IEntity is a document stored in its own collection.
type IEntity interface {
	CollectionName() string
	GetObjectID() primitive.ObjectID
}

type PaginateWithTotal[E any] struct {
	Total int64 `json:"total"`
	Data  []E   `json:"data"`
}

// PageQuery selects one page of a collection. Sort is applied when set.
type PageQuery struct {
	Filter bson.M
	Sort   bson.D
	Limit  int64
	Skip   int64
}

// collection is the typed access to the collection of E.
type collection[E IEntity] struct {
	coll *mongo.Collection
}

func newCollection[E IEntity](db *mongo.Database) collection[E] {
	var entity E
	return collection[E]{
		coll: db.Collection(entity.CollectionName()),
	}
}

// insert stores entity under its own id, or a new one when it has none.
func (c collection[E]) insert(ctx context.Context, entity E) (primitive.ObjectID, error) {
	result, err := c.coll.InsertOne(ctx, entity)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("invalid inserted id: %T %+v", result.InsertedID, result.InsertedID)
	}
	return oid, nil
}

// page runs the find and the count of q concurrently.
func (c collection[E]) page(ctx context.Context, q PageQuery) (*PaginateWithTotal[E], error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	group, ctx := errgroup.WithContext(ctx)
	entities := []E{}
	var total int64

	group.Go(func() error {
		opts := options.Find().SetSkip(q.Skip).SetLimit(q.Limit)
		if len(q.Sort) > 0 {
			opts.SetSort(q.Sort)
		}
		cursor, err := c.coll.Find(ctx, filter, opts)
		if err != nil {
			return fmt.Errorf("find in %s: %w", c.coll.Name(), err)
		}
		if err := cursor.All(ctx, &entities); err != nil {
			return fmt.Errorf("decode %s: %w", c.coll.Name(), err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		total, err = c.coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("count %s: %w", c.coll.Name(), err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &PaginateWithTotal[E]{Total: total, Data: entities}, nil
}
