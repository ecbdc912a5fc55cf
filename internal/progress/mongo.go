package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// progressDocument is the stored form of one key
type progressDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps progress in a MongoDB collection
// #INDEX_IMPLEMENTATION: TTL index on updated_at expires abandoned progress
type MongoStore struct {
	collection *mongo.Collection
	ttl        time.Duration
}

// NewMongoStore creates a store over the given collection
func NewMongoStore(collection *mongo.Collection, ttl time.Duration) *MongoStore {
	return &MongoStore{collection: collection, ttl: ttl}
}

// EnsureIndexes creates the expiry index when a ttl is configured
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(s.ttl.Seconds())).SetName("idx_updated_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("failed to create progress ttl index: %w", err)
	}
	return nil
}

// Get reads a saved progress record
func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc progressDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Set upserts a progress record
func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	update := bson.M{"$set": bson.M{"data": value, "updated_at": time.Now().UTC()}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes a progress record
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

var _ Store = (*MongoStore)(nil)
