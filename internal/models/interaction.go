package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InteractionKind string

const (
	InteractionLike                InteractionKind = "like"
	InteractionDislike             InteractionKind = "dislike"
	InteractionWatchedLiked        InteractionKind = "watched_liked"
	InteractionWatchedDisliked     InteractionKind = "watched_disliked"
	InteractionAddToWatchlist      InteractionKind = "add_to_watchlist"
	InteractionRemoveFromWatchlist InteractionKind = "remove_from_watchlist"
)

func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionLike, InteractionDislike,
		InteractionWatchedLiked, InteractionWatchedDisliked,
		InteractionAddToWatchlist, InteractionRemoveFromWatchlist:
		return true
	}
	return false
}

// Positive reports whether the kind counts towards inferred preferences.
func (k InteractionKind) Positive() bool {
	return k == InteractionLike || k == InteractionWatchedLiked
}

// Interaction is the actor's latest stance on one media item; one row per pair.
type Interaction struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ActorRef    `bson:",inline"`
	MediaItemID primitive.ObjectID `json:"mediaItemId" bson:"mediaItemId"`
	Kind        InteractionKind    `json:"kind" bson:"kind"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// InteractionWithMedia is an interaction joined with its catalog entry.
type InteractionWithMedia struct {
	Interaction
	Media MediaItem `json:"media"`
}
