package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studydesk/internal/document"
)

// MongoStorage implements Repository as a single document in the
// "documents" collection.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	mu         sync.Mutex
}

// NewMongoStorage creates a new MongoDB storage instance
func NewMongoStorage(connectionString, databaseName string) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Test the connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(databaseName).Collection("documents"),
	}, nil
}

// Close closes the MongoDB connection
func (ms *MongoStorage) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}

func (ms *MongoStorage) Get(ctx context.Context) (*document.Document, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var stored bson.M
	err := ms.collection.FindOne(ctx, bson.M{"_id": documentKey}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return document.New(), nil
		}
		return nil, fmt.Errorf("%w: failed to read document: %v", ErrPersistence, err)
	}
	delete(stored, "_id")

	data, err := bson.MarshalExtJSON(stored, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to convert document: %v", ErrPersistence, err)
	}
	d, _, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return d, nil
}

func (ms *MongoStorage) Put(ctx context.Context, d *document.Document) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	data, err := document.Encode(d)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	var body bson.M
	if err := bson.UnmarshalExtJSON(data, false, &body); err != nil {
		return fmt.Errorf("%w: failed to convert document: %v", ErrPersistence, err)
	}
	body["_id"] = documentKey

	opts := options.Replace().SetUpsert(true)
	if _, err := ms.collection.ReplaceOne(ctx, bson.M{"_id": documentKey}, body, opts); err != nil {
		return fmt.Errorf("%w: failed to write document: %v", ErrPersistence, err)
	}
	return nil
}
