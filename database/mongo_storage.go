package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type storageDoc struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

// MongoStorage stores one document per key in a collection.
type MongoStorage struct {
	col *mongo.Collection
}

func NewMongoStorage(col *mongo.Collection) *MongoStorage {
	return &MongoStorage{col: col}
}

func (m *MongoStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var doc storageDoc
	if err := m.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return doc.Value, nil
}

func (m *MongoStorage) Set(ctx context.Context, key string, value []byte) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": key}, storageDoc{Key: key, Value: value}, opts)
	return err
}

func (m *MongoStorage) Delete(ctx context.Context, key string) error {
	_, err := m.col.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
