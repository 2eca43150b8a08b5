package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"
	"github.com/appdotbuilder/next-watch-recommender/internal/tmdb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store down")

// ====== users ======

type fakeUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.UserDoc
	err  error
	// insertErr is returned by Insert only, e.g. a unique index collision
	// that slipped past the pre-check.
	insertErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]*models.UserDoc{}}
}

func (f *fakeUsers) find(match func(*models.UserDoc) bool) (*models.UserDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.UserDoc, error) {
	return f.find(func(u *models.UserDoc) bool { return u.Email == email })
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.UserDoc, error) {
	return f.find(func(u *models.UserDoc) bool { return u.Username == username })
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.UserDoc, error) {
	return f.find(func(u *models.UserDoc) bool { return u.ID == id })
}

func (f *fakeUsers) Insert(_ context.Context, u *models.UserDoc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateByID(_ context.Context, id primitive.ObjectID, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("profile")
	}
	for k, v := range update {
		switch k {
		case "username":
			u.Username = v.(string)
		case "email":
			u.Email = v.(string)
		case "passwordHash":
			u.PasswordHash = v.(string)
		case "displayName":
			u.DisplayName = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "favoriteGenres":
			u.FavoriteGenres = v.([]string)
		case "updatedAt":
			u.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

func (f *fakeUsers) add(username string) models.UserDoc {
	u := models.UserDoc{ID: primitive.NewObjectID(), Username: username, Email: username + "@example.com"}
	_ = f.Insert(context.Background(), &u)
	return u
}

// ====== sessions ======

type fakeSessions struct {
	mu   sync.Mutex
	rows map[string]models.GuestSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{rows: map[string]models.GuestSession{}}
}

func (f *fakeSessions) Insert(_ context.Context, s *models.GuestSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[s.Token] = *s
	return nil
}

func (f *fakeSessions) Touch(_ context.Context, token string) (*models.GuestSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[token]
	if !ok {
		return nil, nil
	}
	s.LastSeenAt = time.Now().UTC()
	f.rows[token] = s
	return &s, nil
}

// ====== media ======

type fakeMedia struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.MediaItem
	err   error
}

func newFakeMedia(items ...models.MediaItem) *fakeMedia {
	f := &fakeMedia{items: map[primitive.ObjectID]models.MediaItem{}}
	for _, m := range items {
		f.items[m.ID] = m
	}
	return f
}

func (f *fakeMedia) GetByID(_ context.Context, id primitive.ObjectID) (*models.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeMedia) GetMany(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := map[primitive.ObjectID]models.MediaItem{}
	for _, id := range ids {
		if m, ok := f.items[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (f *fakeMedia) Upsert(_ context.Context, source, externalID string, u models.MediaUpsert) (*models.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now().UTC()
	for id, m := range f.items {
		if m.Source == source && m.ExternalID == externalID {
			m.Title, m.Kind, m.Genres = u.Title, u.Kind, u.Genres
			m.Rating, m.Popularity = u.Rating, u.Popularity
			m.UpdatedAt = now
			f.items[id] = m
			return &m, nil
		}
	}
	m := models.MediaItem{
		ID: primitive.NewObjectID(), Source: source, ExternalID: externalID,
		Title: u.Title, Kind: u.Kind, Genres: u.Genres, Rating: u.Rating, Popularity: u.Popularity,
		CreatedAt: now, UpdatedAt: now,
	}
	f.items[m.ID] = m
	return &m, nil
}

func (f *fakeMedia) sorted(filter func(models.MediaItem) bool, byPopularity bool) []models.MediaItem {
	out := []models.MediaItem{}
	for _, m := range f.items {
		if filter(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if byPopularity {
			if a.Popularity != b.Popularity {
				return a.Popularity > b.Popularity
			}
			return a.ID.Hex() < b.ID.Hex()
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		return a.ID.Hex() < b.ID.Hex()
	})
	return out
}

func (f *fakeMedia) Query(_ context.Context, flt models.MediaFilter, sortBy models.MediaSort, limit int) ([]models.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range flt.ExcludeIDs {
		excluded[id] = true
	}
	out := f.sorted(func(m models.MediaItem) bool {
		return !excluded[m.ID] && (flt.Kind == "" || m.Kind == flt.Kind)
	}, sortBy == models.SortPopularityDesc)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMedia) Popular(_ context.Context, kind models.MediaKind, limit, offset int) ([]models.MediaItem, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(m models.MediaItem) bool { return kind == "" || m.Kind == kind }, true)
	total := int64(len(all))
	if offset >= len(all) {
		return []models.MediaItem{}, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

// ====== interactions ======

type fakeInteractions struct {
	mu   sync.Mutex
	rows map[string]*models.Interaction // actorKey|mediaId
	seq  int
}

func newFakeInteractions() *fakeInteractions {
	return &fakeInteractions{rows: map[string]*models.Interaction{}}
}

func (f *fakeInteractions) Upsert(_ context.Context, actor models.Actor, mediaItemID primitive.ObjectID, kind models.InteractionKind) (*models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	now := time.Unix(int64(f.seq), 0).UTC()
	key := actor.Key() + "|" + mediaItemID.Hex()
	it, ok := f.rows[key]
	if !ok {
		it = &models.Interaction{ID: primitive.NewObjectID(), ActorRef: actor.Ref(), MediaItemID: mediaItemID, CreatedAt: now}
		f.rows[key] = it
	}
	it.Kind = kind
	it.UpdatedAt = now
	cp := *it
	return &cp, nil
}

func (f *fakeInteractions) QueryByActors(_ context.Context, keys []string, kind models.InteractionKind) ([]models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, k := range keys {
		want[k] = true
	}
	out := []models.Interaction{}
	for _, it := range f.rows {
		if want[it.ActorKey] && (kind == "" || it.Kind == kind) {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// ====== recommendations ======

type fakeRecs struct {
	mu   sync.Mutex
	rows []*models.Recommendation
	seq  int
}

func (f *fakeRecs) InsertMany(_ context.Context, recs []models.Recommendation) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Recommendation, 0, len(recs))
	for _, r := range recs {
		f.seq++
		r.ID = primitive.NewObjectID()
		r.CreatedAt = time.Unix(int64(f.seq), 0).UTC()
		r.Shown = false
		cp := r
		f.rows = append(f.rows, &cp)
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRecs) PopNextUnshown(_ context.Context, keys []string) (*models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, k := range keys {
		want[k] = true
	}
	var best *models.Recommendation
	for _, r := range f.rows {
		if r.Shown || !want[r.ActorKey] {
			continue
		}
		if best == nil || r.Score > best.Score || (r.Score == best.Score && r.CreatedAt.Before(best.CreatedAt)) {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	now := time.Now().UTC()
	best.Shown = true
	best.ShownAt = &now
	cp := *best
	return &cp, nil
}

func (f *fakeRecs) PendingMediaIDs(_ context.Context, keys []string) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, k := range keys {
		want[k] = true
	}
	seen := map[primitive.ObjectID]bool{}
	out := []primitive.ObjectID{}
	for _, r := range f.rows {
		if !r.Shown && want[r.ActorKey] && !seen[r.MediaItemID] {
			seen[r.MediaItemID] = true
			out = append(out, r.MediaItemID)
		}
	}
	return out, nil
}

func (f *fakeRecs) ListByActors(_ context.Context, keys []string, limit, offset int) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, k := range keys {
		want[k] = true
	}
	out := []models.Recommendation{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if want[f.rows[i].ActorKey] {
			out = append(out, *f.rows[i])
		}
	}
	if offset >= len(out) {
		return []models.Recommendation{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ====== watchlist ======

type fakeWatchlist struct {
	mu   sync.Mutex
	rows map[string]*models.WatchlistEntry
}

func newFakeWatchlist() *fakeWatchlist {
	return &fakeWatchlist{rows: map[string]*models.WatchlistEntry{}}
}

func (f *fakeWatchlist) Add(_ context.Context, actor models.Actor, mediaItemID primitive.ObjectID) (*models.WatchlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := actor.Key() + "|" + mediaItemID.Hex()
	e, ok := f.rows[key]
	if !ok {
		e = &models.WatchlistEntry{ID: primitive.NewObjectID(), ActorRef: actor.Ref(), MediaItemID: mediaItemID, CreatedAt: time.Now().UTC()}
		f.rows[key] = e
	}
	cp := *e
	return &cp, nil
}

func (f *fakeWatchlist) Remove(_ context.Context, actorKey string, mediaItemID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := actorKey + "|" + mediaItemID.Hex()
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeWatchlist) ListByActors(_ context.Context, keys []string, limit, offset int) ([]models.WatchlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, k := range keys {
		want[k] = true
	}
	out := []models.WatchlistEntry{}
	for _, e := range f.rows {
		if want[e.ActorKey] {
			out = append(out, *e)
		}
	}
	return out, nil
}

// ====== catalog & cache ======

type fakeCatalog struct {
	mu          sync.Mutex
	search      []tmdb.Result
	popular     map[models.MediaKind][]tmdb.Result
	genres      map[models.MediaKind][]models.Genre
	err         error
	searchCalls int
	genreCalls  int
}

func (f *fakeCatalog) SearchMulti(_ context.Context, _ string, _ int) (*tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &tmdb.Page{Page: 1, TotalPages: 1, Results: append([]tmdb.Result(nil), f.search...)}, nil
}

func (f *fakeCatalog) Popular(_ context.Context, kind models.MediaKind, page int) (*tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &tmdb.Page{Page: page, TotalPages: 1, Results: f.popular[kind]}, nil
}

func (f *fakeCatalog) Genres(_ context.Context, kind models.MediaKind) ([]models.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genreCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.genres[kind], nil
}

// memCache stores values without serialization; dest must be a pointer to
// the stored type.
type memCache struct {
	mu   sync.Mutex
	vals map[string]any
}

func newMemCache() *memCache { return &memCache{vals: map[string]any{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vals[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *[]models.MediaItem:
		*d = v.([]models.MediaItem)
	case *[]models.Genre:
		*d = v.([]models.Genre)
	default:
		return false, nil
	}
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[key] = value
	return nil
}
