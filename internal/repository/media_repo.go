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

// mediaDoc is the stored form of models.MediaItem.
type mediaDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Source      string               `bson:"source"`
	ExternalID  string               `bson:"externalId"`
	Title       string               `bson:"title"`
	Kind        models.MediaKind     `bson:"kind"`
	Genres      []string             `bson:"genres"`
	Rating      primitive.Decimal128 `bson:"rating"`
	Popularity  primitive.Decimal128 `bson:"popularity"`
	Overview    string               `bson:"overview,omitempty"`
	PosterPath  string               `bson:"posterPath,omitempty"`
	ReleaseDate string               `bson:"releaseDate,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func (d mediaDoc) toModel() models.MediaItem {
	genres := d.Genres
	if genres == nil {
		genres = []string{}
	}
	return models.MediaItem{
		ID:          d.ID,
		Source:      d.Source,
		ExternalID:  d.ExternalID,
		Title:       d.Title,
		Kind:        d.Kind,
		Genres:      genres,
		Rating:      decodeDecimal(d.Rating),
		Popularity:  decodeDecimal(d.Popularity),
		Overview:    d.Overview,
		PosterPath:  d.PosterPath,
		ReleaseDate: d.ReleaseDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type MediaRepository struct {
	col *mongo.Collection
}

func NewMediaRepository(database *mongo.Database) *MediaRepository {
	return &MediaRepository{col: database.Collection(db.CollMediaItems)}
}

func (r *MediaRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MediaItem, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MediaRepository) GetByExternalID(ctx context.Context, source, externalID string) (*models.MediaItem, error) {
	return r.findOne(ctx, bson.M{"source": source, "externalId": externalID})
}

func (r *MediaRepository) findOne(ctx context.Context, filter bson.M) (*models.MediaItem, error) {
	var d mediaDoc
	err := r.col.FindOne(ctx, filter).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := d.toModel()
	return &m, nil
}

// GetMany returns the items found for ids, keyed by id.
func (r *MediaRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MediaItem, error) {
	out := make(map[primitive.ObjectID]models.MediaItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	items, err := decodeMedia(ctx, cur)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

// Upsert inserts or refreshes the item identified by (source, externalID).
// Identity and createdAt are kept on refresh.
func (r *MediaRepository) Upsert(ctx context.Context, source, externalID string, f models.MediaUpsert) (*models.MediaItem, error) {
	now := time.Now().UTC()
	genres := f.Genres
	if genres == nil {
		genres = []string{}
	}

	update := bson.M{
		"$set": bson.M{
			"title":       f.Title,
			"kind":        f.Kind,
			"genres":      genres,
			"rating":      encodeRating(f.Rating),
			"popularity":  encodePopularity(f.Popularity),
			"overview":    f.Overview,
			"posterPath":  f.PosterPath,
			"releaseDate": f.ReleaseDate,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var d mediaDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"source": source, "externalId": externalID},
		update,
		opts,
	).Decode(&d)
	if err != nil {
		return nil, err
	}
	m := d.toModel()
	return &m, nil
}

// Query scans the catalog with the given filter and sort, best first.
func (r *MediaRepository) Query(ctx context.Context, f models.MediaFilter, sort models.MediaSort, limit int) ([]models.MediaItem, error) {
	filter := bson.M{}
	if len(f.ExcludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": f.ExcludeIDs}
	}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}

	opts := options.Find().
		SetSort(sortSpec(sort)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeMedia(ctx, cur)
}

// Popular pages through the catalog by popularity.
func (r *MediaRepository) Popular(ctx context.Context, kind models.MediaKind, limit, offset int) ([]models.MediaItem, int64, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(sortSpec(models.SortPopularityDesc)).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeMedia(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func sortSpec(s models.MediaSort) bson.D {
	if s == models.SortPopularityDesc {
		return bson.D{{Key: "popularity", Value: -1}, {Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "rating", Value: -1}, {Key: "popularity", Value: -1}, {Key: "_id", Value: 1}}
}

func decodeMedia(ctx context.Context, cur *mongo.Cursor) ([]models.MediaItem, error) {
	defer cur.Close(ctx)

	out := []models.MediaItem{}
	for cur.Next(ctx) {
		var d mediaDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toModel())
	}
	return out, cur.Err()
}
