package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongoDB opens the client used for the lifetime of the process.
// The caller owns it and must Disconnect on shutdown.
func ConnectMongoDB(ctx context.Context, cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	if err := createIndexes(ctx, client.Database(cfg.DBName), cfg); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	if err := ensureSiteDocument(ctx, client.Database(cfg.DBName), cfg); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create site document: %v", err)
	}

	return client, nil
}

// DisconnectMongoDB closes the client with a bounded timeout.
func DisconnectMongoDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

func createIndexes(ctx context.Context, db *mongo.Database, cfg *Config) error {
	// Users collection indexes
	_, err := db.Collection(cfg.UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// ensureSiteDocument creates the singleton site document if the collection is
// empty. Request-time upserts use an empty filter, so they must always find an
// existing document or concurrent first writes would each insert one.
func ensureSiteDocument(ctx context.Context, db *mongo.Database, cfg *Config) error {
	_, err := db.Collection(cfg.SiteCollection).UpdateOne(ctx,
		bson.M{},
		bson.M{"$setOnInsert": bson.M{"version": int64(0)}},
		options.Update().SetUpsert(true),
	)
	return err
}
