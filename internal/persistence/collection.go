package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrNoDocuments is returned by FindOne when nothing matches the filter.
var ErrNoDocuments = mongo.ErrNoDocuments

// Collection is the document store surface used by repositories. Every write
// touches at most one document and reports how many it affected.
type Collection interface {
	Find(ctx context.Context, filter bson.M, results any) error
	FindOne(ctx context.Context, filter bson.M, result any) error
	InsertOne(ctx context.Context, document any) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter bson.M, set bson.M) (matched int64, modified int64, err error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
}

// Store hands out named collections and manages the backing connection.
type Store interface {
	Collection(name string) Collection
	EnsureUnique(ctx context.Context, collection, field string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type mongoCollection struct {
	coll *mongo.Collection
}

// NewMongoCollection adapts a driver collection.
func NewMongoCollection(coll *mongo.Collection) Collection {
	return &mongoCollection{coll: coll}
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M, results any) error {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M, result any) error {
	return c.coll.FindOne(ctx, filter).Decode(result)
}

func (c *mongoCollection) InsertOne(ctx context.Context, document any) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, document)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (int64, int64, error) {
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, 0, fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
