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

type InteractionRepository struct {
	col *mongo.Collection
}

func NewInteractionRepository(database *mongo.Database) *InteractionRepository {
	return &InteractionRepository{col: database.Collection(db.CollInteractions)}
}

func (r *InteractionRepository) FindByActorAndItem(ctx context.Context, actorKey string, mediaItemID primitive.ObjectID) (*models.Interaction, error) {
	var it models.Interaction
	err := r.col.FindOne(ctx, bson.M{"actorKey": actorKey, "mediaItemId": mediaItemID}).Decode(&it)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Upsert sets the kind of the (actor, item) row, creating it on first use.
// The unique (actorKey, mediaItemId) index makes a racing insert fail with
// a duplicate key; that loser retries once and lands on the update path.
func (r *InteractionRepository) Upsert(ctx context.Context, actor models.Actor, mediaItemID primitive.ObjectID, kind models.InteractionKind) (*models.Interaction, error) {
	it, err := r.upsertOnce(ctx, actor, mediaItemID, kind)
	if mongo.IsDuplicateKeyError(err) {
		it, err = r.upsertOnce(ctx, actor, mediaItemID, kind)
	}
	return it, err
}

func (r *InteractionRepository) upsertOnce(ctx context.Context, actor models.Actor, mediaItemID primitive.ObjectID, kind models.InteractionKind) (*models.Interaction, error) {
	now := time.Now().UTC()
	ref := actor.Ref()

	onInsert := bson.M{"createdAt": now}
	if ref.UserID != "" {
		onInsert["userId"] = ref.UserID
	}
	if ref.SessionID != "" {
		onInsert["sessionId"] = ref.SessionID
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var it models.Interaction
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"actorKey": ref.ActorKey, "mediaItemId": mediaItemID},
		bson.M{
			"$set":         bson.M{"kind": kind, "updatedAt": now},
			"$setOnInsert": onInsert,
		},
		opts,
	).Decode(&it)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// QueryByActors lists interactions of every given actor key, newest first.
// An empty kind returns all kinds.
func (r *InteractionRepository) QueryByActors(ctx context.Context, actorKeys []string, kind models.InteractionKind) ([]models.Interaction, error) {
	filter := bson.M{"actorKey": bson.M{"$in": actorKeys}}
	if kind != "" {
		filter["kind"] = kind
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Interaction{}
	for cur.Next(ctx) {
		var it models.Interaction
		if err := cur.Decode(&it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, cur.Err()
}
