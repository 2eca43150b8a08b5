package db

import (
	"context"
	"fmt"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/config"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollMediaItems      = "media_items"
	CollInteractions    = "interactions"
	CollRecommendations = "recommendations"
	CollUsers           = "users"
	CollGuestSessions   = "guest_sessions"
	CollWatchlist       = "watchlist"
)

// Connect opens the client and pings it. The caller owns Disconnect.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info().Str("db", cfg.MongoDB).Msg("mongo connected")
	return client, client.Database(cfg.MongoDB), nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// ones back the conditional upserts (one interaction / watchlist row per
// actor and item, unique usernames and emails).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollMediaItems: {
			{
				Keys:    bson.D{{Key: "source", Value: 1}, {Key: "externalId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "rating", Value: -1}, {Key: "popularity", Value: -1}}},
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "popularity", Value: -1}}},
		},
		CollInteractions: {
			{
				Keys:    bson.D{{Key: "actorKey", Value: 1}, {Key: "mediaItemId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "actorKey", Value: 1}, {Key: "updatedAt", Value: -1}}},
		},
		CollRecommendations: {
			{Keys: bson.D{
				{Key: "actorKey", Value: 1},
				{Key: "shown", Value: 1},
				{Key: "score", Value: -1},
				{Key: "createdAt", Value: 1},
			}},
		},
		CollUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollWatchlist: {
			{
				Keys:    bson.D{{Key: "actorKey", Value: 1}, {Key: "mediaItemId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", coll, err)
		}
	}
	log.Info().Msg("mongo indexes ensured")
	return nil
}
