package service

import (
	"context"
	"sync"
	"testing"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newInteractionFixture(items ...models.MediaItem) (*InteractionService, *fakeInteractions, *fakeUsers) {
	inter := newFakeInteractions()
	users := newFakeUsers()
	return NewInteractionService(inter, newFakeMedia(items...), users), inter, users
}

func TestRecord_UpsertsOneRowPerPair(t *testing.T) {
	m := media("Heat", models.KindMovie, 8, 10, "Crime")
	svc, inter, _ := newInteractionFixture(m)
	actors := mustActors(t, "", "g1")
	ctx := context.Background()

	first, err := svc.Record(ctx, actors, m.ID.Hex(), models.InteractionLike)
	require.NoError(t, err)

	second, err := svc.Record(ctx, actors, m.ID.Hex(), models.InteractionWatchedDisliked)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.InteractionWatchedDisliked, second.Kind)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	rows, err := inter.QueryByActors(ctx, []string{"g:g1"}, "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRecord_ConcurrentWritersLeaveOneRow(t *testing.T) {
	m := media("Heat", models.KindMovie, 8, 10)
	svc, inter, _ := newInteractionFixture(m)
	actors := mustActors(t, "", "g1")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := models.InteractionLike
			if i%2 == 0 {
				kind = models.InteractionDislike
			}
			_, err := svc.Record(context.Background(), actors, m.ID.Hex(), kind)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rows, err := inter.QueryByActors(context.Background(), []string{"g:g1"}, "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRecord_Validation(t *testing.T) {
	m := media("Heat", models.KindMovie, 8, 10)
	svc, _, users := newInteractionFixture(m)
	ctx := context.Background()

	_, err := svc.Record(ctx, models.ActorSet{}, m.ID.Hex(), models.InteractionLike)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidActor))

	_, err = svc.Record(ctx, mustActors(t, "", "g"), m.ID.Hex(), "love")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidField))

	_, err = svc.Record(ctx, mustActors(t, "", "g"), primitive.NewObjectID().Hex(), models.InteractionLike)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Record(ctx, mustActors(t, "", "g"), "not-an-id", models.InteractionLike)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Record(ctx, mustActors(t, primitive.NewObjectID().Hex(), ""), m.ID.Hex(), models.InteractionLike)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), "unknown user")

	u := users.add("ana")
	it, err := svc.Record(ctx, mustActors(t, u.ID.Hex(), "g"), m.ID.Hex(), models.InteractionLike)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), it.UserID)
	assert.Empty(t, it.SessionID)
}

func TestList_UnionsActorsAndFiltersKind(t *testing.T) {
	a := media("A", models.KindMovie, 8, 10)
	b := media("B", models.KindShow, 8, 10)
	svc, _, users := newInteractionFixture(a, b)
	ctx := context.Background()
	u := users.add("bo")

	_, err := svc.Record(ctx, mustActors(t, u.ID.Hex(), ""), a.ID.Hex(), models.InteractionLike)
	require.NoError(t, err)
	_, err = svc.Record(ctx, mustActors(t, "", "g"), b.ID.Hex(), models.InteractionDislike)
	require.NoError(t, err)

	all, err := svc.List(ctx, mustActors(t, u.ID.Hex(), "g"), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Media.Title)

	likes, err := svc.List(ctx, mustActors(t, u.ID.Hex(), "g"), models.InteractionLike)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, a.ID, likes[0].MediaItemID)

	_, err = svc.List(ctx, mustActors(t, "", "g"), "meh")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidField))
}
