package service

import (
	"context"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/metrics"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"
	"github.com/appdotbuilder/next-watch-recommender/internal/recommend"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50 // keeps the candidate pool scan bounded
)

type RecommendService struct {
	interactions InteractionStore
	media        MediaStore
	recs         RecommendationStore
	defaultLimit int
}

func NewRecommendService(i InteractionStore, m MediaStore, r RecommendationStore, defaultLimit int) *RecommendService {
	if defaultLimit <= 0 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}
	return &RecommendService{
		interactions: i,
		media:        m,
		recs:         r,
		defaultLimit: defaultLimit,
	}
}

// ====== Generation ======

// Generate scores unseen catalog items against the actors' inferred
// preferences and persists the best `limit` as unshown recommendations.
// Items already interacted with, or still waiting unshown in an earlier
// batch, are never suggested again.
func (s *RecommendService) Generate(ctx context.Context, actors models.ActorSet, limit int) ([]models.RecommendationWithMedia, error) {
	if actors.Empty() {
		return nil, apperr.InvalidActor()
	}
	if limit <= 0 {
		limit = s.defaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}

	keys := actors.Keys()

	history, err := historyWithMedia(ctx, s.interactions, s.media, keys, "")
	if err != nil {
		return nil, err
	}
	prefs := recommend.InferPreferences(history)

	pending, err := s.recs.PendingMediaIDs(ctx, keys)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	for _, id := range pending {
		prefs.Exclude[id] = struct{}{}
	}

	pool, err := s.media.Query(ctx, models.MediaFilter{
		ExcludeIDs: prefs.ExcludeIDs(),
		Kind:       prefs.KindFilter(),
	}, models.SortRatingDesc, recommend.PoolSize(limit))
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	ranked := recommend.Rank(pool, prefs, limit)
	if len(ranked) == 0 {
		return []models.RecommendationWithMedia{}, nil
	}

	ref := actors.Writer().Ref()
	rows := make([]models.Recommendation, 0, len(ranked))
	byID := make(map[primitive.ObjectID]models.MediaItem, len(ranked))
	for _, sc := range ranked {
		rows = append(rows, models.Recommendation{
			ActorRef:    ref,
			MediaItemID: sc.Item.ID,
			Reason:      sc.Reason,
			Score:       sc.Score,
		})
		byID[sc.Item.ID] = sc.Item
	}

	saved, err := s.recs.InsertMany(ctx, rows)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	metrics.RecommendationsGenerated.Add(float64(len(saved)))

	log.Debug().
		Strs("actors", keys).
		Int("pool", len(pool)).
		Int("saved", len(saved)).
		Msg("recommendations generated")

	out := make([]models.RecommendationWithMedia, 0, len(saved))
	for _, r := range saved {
		m := byID[r.MediaItemID]
		out = append(out, models.RecommendationWithMedia{Recommendation: r, Media: &m})
	}
	return out, nil
}

// ====== Dispensing ======

// Next hands out the best unshown recommendation and marks it shown. Each
// row is delivered at most once. Returns nil when none is available.
func (s *RecommendService) Next(ctx context.Context, actors models.ActorSet) (*models.RecommendationWithMedia, error) {
	if actors.Empty() {
		return nil, apperr.InvalidActor()
	}

	rec, err := s.recs.PopNextUnshown(ctx, actors.Keys())
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	if rec == nil {
		return nil, nil
	}
	metrics.RecommendationsDispensed.Inc()

	out := &models.RecommendationWithMedia{Recommendation: *rec}

	// the row is already marked shown, so a failed join must not lose it
	m, err := s.media.GetByID(ctx, rec.MediaItemID)
	if err != nil {
		log.Warn().Err(err).Str("recommendation", rec.ID.Hex()).Msg("next: media lookup failed")
		return out, nil
	}
	out.Media = m
	return out, nil
}

// History lists generated recommendations, shown or not, newest first.
func (s *RecommendService) History(ctx context.Context, actors models.ActorSet, limit, offset int) ([]models.RecommendationWithMedia, error) {
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

	rows, err := s.recs.ListByActors(ctx, actors.Keys(), limit, offset)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MediaItemID)
	}
	byID, err := s.media.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	out := make([]models.RecommendationWithMedia, 0, len(rows))
	for _, r := range rows {
		item := models.RecommendationWithMedia{Recommendation: r}
		if m, ok := byID[r.MediaItemID]; ok {
			item.Media = &m
		}
		out = append(out, item)
	}
	return out, nil
}
