package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecosprout/pkg/logger"
)

const optimisticRetries = 5

// ConnectMongo dials MongoDB and pings it, retrying up to attempts times with
// delay between tries. Used only at startup.
func ConnectMongo(ctx context.Context, uri, database string, attempts int, delay time.Duration) (*mongo.Client, *mongo.Database, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				db := client.Database(database)
				if err := ensureMongoIndexes(ctx, db); err != nil {
					logger.Warn("Failed to ensure MongoDB indexes: %v", err)
				}
				logger.Info("Connected to MongoDB database %s", database)
				return client, db, nil
			}
			_ = client.Disconnect(context.Background())
		}
		lastErr = err
		logger.Warn("MongoDB connection attempt %d/%d failed: %v", i, attempts, err)

		if i < attempts {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, nil, fmt.Errorf("connect to mongodb after %d attempts: %w", attempts, lastErr)
}

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := db.Collection(itemsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "condition", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := db.Collection(transactionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}
