package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommendation is one scored suggestion, dispensed at most once.
type Recommendation struct {
	ID          primitive.ObjectID `json:"id"`
	ActorRef
	MediaItemID primitive.ObjectID `json:"mediaItemId"`
	Reason      string             `json:"reason"`
	Score       float64            `json:"score"`
	Shown       bool               `json:"shown"`
	CreatedAt   time.Time          `json:"createdAt"`
	ShownAt     *time.Time         `json:"shownAt,omitempty"`
}

// RecommendationWithMedia is what the swipe UI renders.
type RecommendationWithMedia struct {
	Recommendation
	Media *MediaItem `json:"media,omitempty"`
}
