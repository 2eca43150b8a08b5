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

type recommendationDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	models.ActorRef `bson:",inline"`
	MediaItemID     primitive.ObjectID   `bson:"mediaItemId"`
	Reason          string               `bson:"reason"`
	Score           primitive.Decimal128 `bson:"score"`
	Shown           bool                 `bson:"shown"`
	CreatedAt       time.Time            `bson:"createdAt"`
	ShownAt         *time.Time           `bson:"shownAt,omitempty"`
}

func (d recommendationDoc) toModel() models.Recommendation {
	return models.Recommendation{
		ID:          d.ID,
		ActorRef:    d.ActorRef,
		MediaItemID: d.MediaItemID,
		Reason:      d.Reason,
		Score:       decodeDecimal(d.Score),
		Shown:       d.Shown,
		CreatedAt:   d.CreatedAt,
		ShownAt:     d.ShownAt,
	}
}

type RecommendationRepository struct {
	col *mongo.Collection
}

func NewRecommendationRepository(database *mongo.Database) *RecommendationRepository {
	return &RecommendationRepository{col: database.Collection(db.CollRecommendations)}
}

// InsertMany stores a batch as unshown rows and returns them as persisted.
// The batch is ordered: on failure, rows before the failing one stay.
func (r *RecommendationRepository) InsertMany(ctx context.Context, recs []models.Recommendation) ([]models.Recommendation, error) {
	if len(recs) == 0 {
		return []models.Recommendation{}, nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(recs))
	out := make([]models.Recommendation, 0, len(recs))

	for _, rec := range recs {
		if rec.ID.IsZero() {
			rec.ID = primitive.NewObjectID()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.Shown = false
		rec.ShownAt = nil

		docs = append(docs, recommendationDoc{
			ID:          rec.ID,
			ActorRef:    rec.ActorRef,
			MediaItemID: rec.MediaItemID,
			Reason:      rec.Reason,
			Score:       encodeScore(rec.Score),
			Shown:       false,
			CreatedAt:   rec.CreatedAt,
		})

		rec.Score = roundTrip(rec.Score, scorePlaces)
		out = append(out, rec)
	}

	if _, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, err
	}
	return out, nil
}

// PopNextUnshown marks the best unshown row of the given actors as shown
// and returns it, in one findOneAndUpdate so concurrent callers never get
// the same row. Returns nil when nothing is pending.
func (r *RecommendationRepository) PopNextUnshown(ctx context.Context, actorKeys []string) (*models.Recommendation, error) {
	now := time.Now().UTC()

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{
			{Key: "score", Value: -1},
			{Key: "createdAt", Value: 1},
			{Key: "_id", Value: 1},
		}).
		SetReturnDocument(options.After)

	var d recommendationDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"actorKey": bson.M{"$in": actorKeys}, "shown": false},
		bson.M{"$set": bson.M{"shown": true, "shownAt": now}},
		opts,
	).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := d.toModel()
	return &rec, nil
}

// PendingMediaIDs lists media items that still have unshown rows.
func (r *RecommendationRepository) PendingMediaIDs(ctx context.Context, actorKeys []string) ([]primitive.ObjectID, error) {
	vals, err := r.col.Distinct(ctx, "mediaItemId", bson.M{
		"actorKey": bson.M{"$in": actorKeys},
		"shown":    false,
	})
	if err != nil {
		return nil, err
	}

	out := make([]primitive.ObjectID, 0, len(vals))
	for _, v := range vals {
		if id, ok := v.(primitive.ObjectID); ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// ListByActors returns generated rows, newest first.
func (r *RecommendationRepository) ListByActors(ctx context.Context, actorKeys []string, limit, offset int) ([]models.Recommendation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, bson.M{"actorKey": bson.M{"$in": actorKeys}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Recommendation{}
	for cur.Next(ctx) {
		var d recommendationDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toModel())
	}
	return out, cur.Err()
}
