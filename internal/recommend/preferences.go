// Package recommend holds the pure parts of recommendation generation:
// preference inference over an interaction history and candidate scoring.
package recommend

import (
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preferences is what an interaction history says about an actor.
type Preferences struct {
	// Exclude holds every interacted item, whatever the sentiment.
	Exclude     map[primitive.ObjectID]struct{}
	LikedGenres map[string]struct{}
	LikedKinds  map[models.MediaKind]struct{}
	// LikedTitles keeps history order for the "Because you liked" fallback.
	LikedTitles []string
}

// InferPreferences folds the interactions of one actor set (user and guest
// already unioned by the caller). An empty history yields empty sets.
func InferPreferences(history []models.InteractionWithMedia) Preferences {
	p := Preferences{
		Exclude:     make(map[primitive.ObjectID]struct{}, len(history)),
		LikedGenres: make(map[string]struct{}),
		LikedKinds:  make(map[models.MediaKind]struct{}),
	}

	for _, h := range history {
		p.Exclude[h.MediaItemID] = struct{}{}

		if !h.Kind.Positive() {
			continue
		}
		for _, g := range h.Media.Genres {
			p.LikedGenres[g] = struct{}{}
		}
		if h.Media.Kind != "" {
			p.LikedKinds[h.Media.Kind] = struct{}{}
		}
		if h.Media.Title != "" {
			p.LikedTitles = append(p.LikedTitles, h.Media.Title)
		}
	}
	return p
}

// ExcludeIDs returns the exclusion set as a slice for store filters.
func (p Preferences) ExcludeIDs() []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(p.Exclude))
	for id := range p.Exclude {
		out = append(out, id)
	}
	return out
}

// KindFilter narrows the candidate pool only when exactly one kind is liked.
func (p Preferences) KindFilter() models.MediaKind {
	if len(p.LikedKinds) != 1 {
		return ""
	}
	for k := range p.LikedKinds {
		return k
	}
	return ""
}
