package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"
	"github.com/appdotbuilder/next-watch-recommender/internal/tmdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaFixture(cat *fakeCatalog, items ...models.MediaItem) (*MediaService, *fakeMedia, *memCache) {
	store := newFakeMedia(items...)
	cache := newMemCache()
	return NewMediaService(store, cat, cache, time.Hour, time.Hour), store, cache
}

func tmdbCatalog() *fakeCatalog {
	return &fakeCatalog{
		search: []tmdb.Result{
			{ID: 949, MediaType: "movie", Title: "Heat", GenreIDs: []int{28, 80}, VoteAverage: 7.9, Popularity: 55.5},
			{ID: 1399, MediaType: "tv", Name: "Heat Signature", GenreIDs: []int{18}, VoteAverage: 6.2, Popularity: 3.2},
		},
		popular: map[models.MediaKind][]tmdb.Result{
			models.KindMovie: {
				{ID: 1, MediaType: "movie", Title: "One", GenreIDs: []int{28}},
				{ID: 2, MediaType: "movie", Title: "Two", GenreIDs: []int{80}},
			},
		},
		genres: map[models.MediaKind][]models.Genre{
			models.KindMovie: {{ID: 28, Name: "Action"}, {ID: 80, Name: "Crime"}},
			models.KindShow:  {{ID: 18, Name: "Drama"}},
		},
	}
}

func TestSearch_UpsertsAndCaches(t *testing.T) {
	cat := tmdbCatalog()
	svc, store, cache := newMediaFixture(cat)
	ctx := context.Background()

	out, err := svc.Search(ctx, "  Heat ", "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"Action", "Crime"}, out[0].Genres)
	assert.Equal(t, models.KindShow, out[1].Kind)
	assert.Len(t, store.items, 2)
	assert.Contains(t, cache.vals, "search:all:heat")

	again, err := svc.Search(ctx, "heat", "")
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Equal(t, 1, cat.searchCalls)
}

func TestSearch_KindFilterAndReingestKeepsIdentity(t *testing.T) {
	cat := tmdbCatalog()
	svc, store, _ := newMediaFixture(cat)
	ctx := context.Background()

	movies, err := svc.Search(ctx, "heat", models.KindMovie)
	require.NoError(t, err)
	require.Len(t, movies, 1)

	all, err := svc.Search(ctx, "heat", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, movies[0].ID, all[0].ID)
	assert.Len(t, store.items, 2)
}

func TestSearch_Errors(t *testing.T) {
	cat := tmdbCatalog()
	svc, _, _ := newMediaFixture(cat)
	ctx := context.Background()

	_, err := svc.Search(ctx, "  ", "")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidField))

	_, err = svc.Search(ctx, "x", "book")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidField))

	cat.err = errors.New("boom")
	_, err = svc.Search(ctx, "x", "")
	assert.True(t, apperr.Is(err, apperr.CodeUpstream))
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestGenres_Cached(t *testing.T) {
	cat := tmdbCatalog()
	svc, _, _ := newMediaFixture(cat)
	ctx := context.Background()

	gs, err := svc.Genres(ctx, models.KindMovie)
	require.NoError(t, err)
	assert.Len(t, gs, 2)

	_, err = svc.Genres(ctx, models.KindMovie)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.genreCalls)

	_, err = svc.Genres(ctx, "")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidField))
}

func TestPopular_Paging(t *testing.T) {
	items := []models.MediaItem{
		media("low", models.KindMovie, 5, 1),
		media("mid", models.KindMovie, 5, 50),
		media("top", models.KindShow, 5, 99),
	}
	svc, _, _ := newMediaFixture(tmdbCatalog(), items...)
	ctx := context.Background()

	p, err := svc.Popular(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Total)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "top", p.Items[0].Title)

	p, err = svc.Popular(ctx, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "low", p.Items[0].Title)

	p, err = svc.Popular(ctx, models.KindMovie, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, int64(2), p.Total)
}

func TestGet(t *testing.T) {
	m := media("Heat", models.KindMovie, 8, 10)
	svc, _, _ := newMediaFixture(tmdbCatalog(), m)

	got, err := svc.Get(context.Background(), m.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Heat", got.Title)

	_, err = svc.Get(context.Background(), "nope")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSyncPopular(t *testing.T) {
	svc, store, _ := newMediaFixture(tmdbCatalog())

	n, err := svc.SyncPopular(context.Background(), models.KindMovie, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.items, 2)

	n, err = svc.SyncPopular(context.Background(), models.KindMovie, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.items, 2, "re-ingest updates in place")
}
