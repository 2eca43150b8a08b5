package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindShow  MediaKind = "show"
)

func (k MediaKind) Valid() bool { return k == KindMovie || k == KindShow }

const SourceTMDB = "tmdb"

// MediaItem is one catalog entry. Rating is 0-10 with one decimal place,
// popularity is unbounded with three.
type MediaItem struct {
	ID          primitive.ObjectID `json:"id"`
	Source      string             `json:"source"`
	ExternalID  string             `json:"externalId"`
	Title       string             `json:"title"`
	Kind        MediaKind          `json:"kind"`
	Genres      []string           `json:"genres"`
	Rating      float64            `json:"rating"`
	Popularity  float64            `json:"popularity"`
	Overview    string             `json:"overview,omitempty"`
	PosterPath  string             `json:"posterPath,omitempty"`
	ReleaseDate string             `json:"releaseDate,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// MediaUpsert carries the descriptive fields refreshed on re-ingestion.
type MediaUpsert struct {
	Title       string
	Kind        MediaKind
	Genres      []string
	Rating      float64
	Popularity  float64
	Overview    string
	PosterPath  string
	ReleaseDate string
}

// MediaFilter narrows a catalog scan. Zero values impose no filter.
type MediaFilter struct {
	ExcludeIDs []primitive.ObjectID
	Kind       MediaKind
}

type MediaSort string

const (
	SortRatingDesc     MediaSort = "rating"
	SortPopularityDesc MediaSort = "popularity"
)

type MediaPage struct {
	Items    []MediaItem `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Total    int64       `json:"total"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
