package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/metrics"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type MediaService struct {
	media     MediaStore
	catalog   Catalog
	cache     JSONCache
	searchTTL time.Duration
	genreTTL  time.Duration
}

func NewMediaService(media MediaStore, catalog Catalog, cache JSONCache, searchTTL, genreTTL time.Duration) *MediaService {
	return &MediaService{
		media:     media,
		catalog:   catalog,
		cache:     cache,
		searchTTL: searchTTL,
		genreTTL:  genreTTL,
	}
}

func (s *MediaService) Get(ctx context.Context, id string) (*models.MediaItem, error) {
	oid, err := parseMediaID(id)
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
	return m, nil
}

// Popular returns one page of the catalog by popularity. Pages start at 1.
func (s *MediaService) Popular(ctx context.Context, kind models.MediaKind, page, pageSize int) (*models.MediaPage, error) {
	if kind != "" && !kind.Valid() {
		return nil, apperr.Invalid("kind", "must be movie or show")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.media.Popular(ctx, kind, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	return &models.MediaPage{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func searchCacheKey(kind models.MediaKind, query string) string {
	k := string(kind)
	if k == "" {
		k = "all"
	}
	return fmt.Sprintf("search:%s:%s", k, query)
}

// Search looks the query up in the external catalog, upserts every hit into
// the local catalog and returns the stored items. Results are cached per
// (kind, normalized query).
func (s *MediaService) Search(ctx context.Context, query string, kind models.MediaKind) ([]models.MediaItem, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, apperr.Invalid("query", "cannot be empty")
	}
	if kind != "" && !kind.Valid() {
		return nil, apperr.Invalid("kind", "must be movie or show")
	}

	key := searchCacheKey(kind, query)
	var cached []models.MediaItem
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		metrics.SearchCache.WithLabelValues("hit").Inc()
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("search cache read failed")
	}
	metrics.SearchCache.WithLabelValues("miss").Inc()

	page, err := s.catalog.SearchMulti(ctx, query, 1)
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	genreNames := map[models.MediaKind]map[int]string{}
	out := make([]models.MediaItem, 0, len(page.Results))

	for _, r := range page.Results {
		rk := r.Kind()
		if rk == "" || (kind != "" && rk != kind) {
			continue
		}
		names, ok := genreNames[rk]
		if !ok {
			names, err = s.genreNames(ctx, rk)
			if err != nil {
				return nil, err
			}
			genreNames[rk] = names
		}

		m, err := s.media.Upsert(ctx, models.SourceTMDB, r.ExternalID(), r.ToUpsert(names))
		if err != nil {
			return nil, apperr.StoreFailure(err)
		}
		out = append(out, *m)
	}

	if err := s.cache.SetJSON(ctx, key, out, s.searchTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("search cache write failed")
	}
	return out, nil
}

// Genres returns the external genre taxonomy for kind, cached.
func (s *MediaService) Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("kind", "must be movie or show")
	}

	key := "genres:" + string(kind)
	var cached []models.Genre
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	gs, err := s.catalog.Genres(ctx, kind)
	if err != nil {
		return nil, apperr.Upstream(err)
	}
	if err := s.cache.SetJSON(ctx, key, gs, s.genreTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("genre cache write failed")
	}
	return gs, nil
}

func (s *MediaService) genreNames(ctx context.Context, kind models.MediaKind) (map[int]string, error) {
	gs, err := s.Genres(ctx, kind)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(gs))
	for _, g := range gs {
		names[g.ID] = g.Name
	}
	return names, nil
}

// SyncPopular ingests pages 1..pages of the external popular listing for
// kind and returns how many items were upserted.
func (s *MediaService) SyncPopular(ctx context.Context, kind models.MediaKind, pages int) (int, error) {
	names, err := s.genreNames(ctx, kind)
	if err != nil {
		return 0, err
	}

	n := 0
	for p := 1; p <= pages; p++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		page, err := s.catalog.Popular(ctx, kind, p)
		if err != nil {
			return n, apperr.Upstream(err)
		}
		for _, r := range page.Results {
			if _, err := s.media.Upsert(ctx, models.SourceTMDB, r.ExternalID(), r.ToUpsert(names)); err != nil {
				return n, apperr.StoreFailure(err)
			}
			n++
		}
		if page.TotalPages > 0 && p >= page.TotalPages {
			break
		}
	}

	metrics.CatalogSynced.WithLabelValues(string(kind)).Add(float64(n))
	return n, nil
}

func parseMediaID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("media item")
	}
	return oid, nil
}
