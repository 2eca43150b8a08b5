package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserDoc struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username       string             `json:"username" bson:"username"`
	Email          string             `json:"email" bson:"email"`
	PasswordHash   string             `json:"-" bson:"passwordHash,omitempty"`
	DisplayName    string             `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	FavoriteGenres []string           `json:"favoriteGenres,omitempty" bson:"favoriteGenres,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type GuestSession struct {
	Token      string    `json:"sessionId" bson:"_id"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt" bson:"lastSeenAt"`
}

type WatchlistEntry struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ActorRef    `bson:",inline"`
	MediaItemID primitive.ObjectID `json:"mediaItemId" bson:"mediaItemId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type WatchlistItem struct {
	WatchlistEntry
	Media *MediaItem `json:"media,omitempty"`
}
