package service

import (
	"context"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/metrics"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InteractionService struct {
	interactions InteractionStore
	media        MediaStore
	users        UserStore
}

func NewInteractionService(i InteractionStore, m MediaStore, u UserStore) *InteractionService {
	return &InteractionService{
		interactions: i,
		media:        m,
		users:        u,
	}
}

// Record stores the actor's latest interaction with a media item. Repeated
// calls for the same pair update the single row in place.
func (s *InteractionService) Record(ctx context.Context, actors models.ActorSet, mediaItemID string, kind models.InteractionKind) (*models.Interaction, error) {
	if actors.Empty() {
		return nil, apperr.InvalidActor()
	}
	if !kind.Valid() {
		return nil, apperr.Invalid("kind", "unknown interaction kind")
	}

	oid, err := parseMediaID(mediaItemID)
	if err != nil {
		return nil, err
	}
	m, err := s.media.GetByID(ctx, oid)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	if m == nil {
		return nil, apperr.NotFound("media item")
	}

	if u, ok := actors.User(); ok {
		if err := ensureUser(ctx, s.users, u.ID); err != nil {
			return nil, err
		}
	}

	it, err := s.interactions.Upsert(ctx, actors.Writer(), oid, kind)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	metrics.InteractionsRecorded.WithLabelValues(string(kind)).Inc()
	return it, nil
}

// List returns the interactions of every actor in the set, newest first,
// joined with their media items. An empty kind lists all kinds.
func (s *InteractionService) List(ctx context.Context, actors models.ActorSet, kind models.InteractionKind) ([]models.InteractionWithMedia, error) {
	if actors.Empty() {
		return nil, apperr.InvalidActor()
	}
	if kind != "" && !kind.Valid() {
		return nil, apperr.Invalid("kind", "unknown interaction kind")
	}
	return historyWithMedia(ctx, s.interactions, s.media, actors.Keys(), kind)
}

func historyWithMedia(ctx context.Context, interactions InteractionStore, media MediaStore, keys []string, kind models.InteractionKind) ([]models.InteractionWithMedia, error) {
	rows, err := interactions.QueryByActors(ctx, keys, kind)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MediaItemID)
	}
	byID, err := media.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	out := make([]models.InteractionWithMedia, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.InteractionWithMedia{Interaction: r, Media: byID[r.MediaItemID]})
	}
	return out, nil
}
