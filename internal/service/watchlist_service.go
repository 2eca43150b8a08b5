package service

import (
	"context"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WatchlistService struct {
	watchlist    WatchlistStore
	interactions InteractionStore
	media        MediaStore
	users        UserStore
}

func NewWatchlistService(w WatchlistStore, i InteractionStore, m MediaStore, u UserStore) *WatchlistService {
	return &WatchlistService{watchlist: w, interactions: i, media: m, users: u}
}

// Add puts the item on the actor's watchlist. Adding twice returns the same
// row. The add is also recorded as an add_to_watchlist interaction.
func (s *WatchlistService) Add(ctx context.Context, actors models.ActorSet, mediaItemID string) (*models.WatchlistItem, error) {
	if actors.Empty() {
		return nil, apperr.InvalidActor()
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

	writer := actors.Writer()
	e, err := s.watchlist.Add(ctx, writer, oid)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	if _, err := s.interactions.Upsert(ctx, writer, oid, models.InteractionAddToWatchlist); err != nil {
		log.Warn().Err(err).Str("actor", writer.Key()).Str("media", oid.Hex()).Msg("watchlist add: interaction not recorded")
	}
	return &models.WatchlistItem{WatchlistEntry: *e, Media: m}, nil
}

// Remove deletes the item from every actor in the set. It reports false only
// when no actor was given; removing an absent item still reports true.
func (s *WatchlistService) Remove(ctx context.Context, userID, sessionID, mediaItemID string) (bool, error) {
	actors, err := models.NewActorSet(userID, sessionID)
	if err != nil {
		return false, nil
	}

	oid, err := primitive.ObjectIDFromHex(mediaItemID)
	if err != nil {
		return true, nil
	}

	removed := false
	for _, key := range actors.Keys() {
		ok, err := s.watchlist.Remove(ctx, key, oid)
		if err != nil {
			return false, apperr.StoreFailure(err)
		}
		removed = removed || ok
	}

	if removed {
		writer := actors.Writer()
		if _, err := s.interactions.Upsert(ctx, writer, oid, models.InteractionRemoveFromWatchlist); err != nil {
			log.Warn().Err(err).Str("actor", writer.Key()).Str("media", oid.Hex()).Msg("watchlist remove: interaction not recorded")
		}
	}
	return true, nil
}

// List returns the watchlist of every actor in the set, newest first.
func (s *WatchlistService) List(ctx context.Context, actors models.ActorSet, limit, offset int) ([]models.WatchlistItem, error) {
	if actors.Empty() {
		return nil, apperr.InvalidActor()
	}
	if limit <= 0 {
		limit = DefaultPageSize
	} else if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.watchlist.ListByActors(ctx, actors.Keys(), limit, offset)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MediaItemID)
	}
	byID, err := s.media.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	out := make([]models.WatchlistItem, 0, len(entries))
	for _, e := range entries {
		item := models.WatchlistItem{WatchlistEntry: e}
		if m, ok := byID[e.MediaItemID]; ok {
			item.Media = &m
		}
		out = append(out, item)
	}
	return out, nil
}
