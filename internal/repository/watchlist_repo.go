package repository

import (
	"context"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/db"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WatchlistRepository struct {
	col *mongo.Collection
}

func NewWatchlistRepository(database *mongo.Database) *WatchlistRepository {
	return &WatchlistRepository{col: database.Collection(db.CollWatchlist)}
}

// Add returns the existing row for (actor, item) or creates it.
func (r *WatchlistRepository) Add(ctx context.Context, actor models.Actor, mediaItemID primitive.ObjectID) (*models.WatchlistEntry, error) {
	e, err := r.addOnce(ctx, actor, mediaItemID)
	if mongo.IsDuplicateKeyError(err) {
		e, err = r.addOnce(ctx, actor, mediaItemID)
	}
	return e, err
}

func (r *WatchlistRepository) addOnce(ctx context.Context, actor models.Actor, mediaItemID primitive.ObjectID) (*models.WatchlistEntry, error) {
	ref := actor.Ref()
	onInsert := bson.M{"createdAt": time.Now().UTC()}
	if ref.UserID != "" {
		onInsert["userId"] = ref.UserID
	}
	if ref.SessionID != "" {
		onInsert["sessionId"] = ref.SessionID
	}

	var e models.WatchlistEntry
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"actorKey": ref.ActorKey, "mediaItemId": mediaItemID},
		bson.M{"$setOnInsert": onInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Remove deletes the row if present and reports whether one was deleted.
func (r *WatchlistRepository) Remove(ctx context.Context, actorKey string, mediaItemID primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"actorKey": actorKey, "mediaItemId": mediaItemID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *WatchlistRepository) ListByActors(ctx context.Context, actorKeys []string, limit, offset int) ([]models.WatchlistEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, bson.M{"actorKey": bson.M{"$in": actorKeys}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.WatchlistEntry{}
	for cur.Next(ctx) {
		var e models.WatchlistEntry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}
