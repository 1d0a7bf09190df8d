package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// live matches documents that are not soft-deleted.
var live = bson.M{"deleted": false}

// softDeleteCollection implements the operations shared by every collection.
// notFound is the domain error returned when no document matches an id.
type softDeleteCollection[T any] struct {
	col      *mongo.Collection
	notFound error
}

func newSoftDeleteCollection[T any](db *mongo.Database, name string, notFound error) softDeleteCollection[T] {
	return softDeleteCollection[T]{col: db.Collection(name), notFound: notFound}
}

// List returns live documents, oldest first.
func (c softDeleteCollection[T]) List(ctx context.Context) ([]T, error) {
	return c.find(ctx, live)
}

func (c softDeleteCollection[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.col.Name(), err)
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.col.Name(), err)
	}
	return out, nil
}

// FindByID returns the document whether or not it is soft-deleted.
func (c softDeleteCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	err := c.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound
		}
		return nil, fmt.Errorf("find %s %s: %w", c.col.Name(), id, err)
	}
	return &doc, nil
}

func (c softDeleteCollection[T]) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := c.col.CountDocuments(ctx, live)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.col.Name(), err)
	}
	return n, nil
}

func (c softDeleteCollection[T]) insert(ctx context.Context, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", c.col.Name(), err)
	}
	return nil
}

// update applies set and stamps updatedAt. An empty set still stamps.
func (c softDeleteCollection[T]) update(ctx context.Context, id string, set bson.M, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = at

	res, err := c.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s %s: %w", c.col.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return c.notFound
	}
	return nil
}

func (c softDeleteCollection[T]) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return c.update(ctx, id, bson.M{"deleted": true, "deletedAt": at}, at)
}

// Restore clears the soft-delete flag; createdAt is left untouched.
func (c softDeleteCollection[T]) Restore(ctx context.Context, id string, at time.Time) error {
	return c.update(ctx, id, bson.M{"deleted": false, "deletedAt": nil}, at)
}

// setIf adds key to set when v is non-nil.
func setIf[V any](set bson.M, key string, v *V) {
	if v != nil {
		set[key] = *v
	}
}
