package service

import (
	"context"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/models"
	"github.com/appdotbuilder/next-watch-recommender/internal/tmdb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stores the services depend on. The repository package implements them
// over MongoDB; tests use in-memory fakes.

// UserStore reports unique collisions as apperr DuplicateIdentity and a
// missing user on update as apperr NotFound.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.UserDoc, error)
	FindByUsername(ctx context.Context, username string) (*models.UserDoc, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error)
	Insert(ctx context.Context, u *models.UserDoc) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error
}

type SessionStore interface {
	Insert(ctx context.Context, s *models.GuestSession) error
	Touch(ctx context.Context, token string) (*models.GuestSession, error)
}

type MediaStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MediaItem, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MediaItem, error)
	Upsert(ctx context.Context, source, externalID string, f models.MediaUpsert) (*models.MediaItem, error)
	Query(ctx context.Context, f models.MediaFilter, sort models.MediaSort, limit int) ([]models.MediaItem, error)
	Popular(ctx context.Context, kind models.MediaKind, limit, offset int) ([]models.MediaItem, int64, error)
}

type InteractionStore interface {
	Upsert(ctx context.Context, actor models.Actor, mediaItemID primitive.ObjectID, kind models.InteractionKind) (*models.Interaction, error)
	QueryByActors(ctx context.Context, actorKeys []string, kind models.InteractionKind) ([]models.Interaction, error)
}

type RecommendationStore interface {
	InsertMany(ctx context.Context, recs []models.Recommendation) ([]models.Recommendation, error)
	PopNextUnshown(ctx context.Context, actorKeys []string) (*models.Recommendation, error)
	PendingMediaIDs(ctx context.Context, actorKeys []string) ([]primitive.ObjectID, error)
	ListByActors(ctx context.Context, actorKeys []string, limit, offset int) ([]models.Recommendation, error)
}

type WatchlistStore interface {
	Add(ctx context.Context, actor models.Actor, mediaItemID primitive.ObjectID) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, actorKey string, mediaItemID primitive.ObjectID) (bool, error)
	ListByActors(ctx context.Context, actorKeys []string, limit, offset int) ([]models.WatchlistEntry, error)
}

// Catalog is the external catalog lookup service.
type Catalog interface {
	SearchMulti(ctx context.Context, query string, page int) (*tmdb.Page, error)
	Popular(ctx context.Context, kind models.MediaKind, page int) (*tmdb.Page, error)
	Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error)
}

type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
