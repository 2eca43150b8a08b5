package recommend

import (
	"sort"
	"strings"

	"github.com/appdotbuilder/next-watch-recommender/internal/models"
)

const (
	BaseScore   = 0.3
	GenreWeight = 0.2

	HighRatingThreshold = 8.0
	HighRatingBonus     = 0.2
	GoodRatingThreshold = 7.0
	GoodRatingBonus     = 0.1

	KindBonus = 0.1

	PopularityThreshold = 50.0
	PopularityBonus     = 0.05

	// PoolFactor sizes the candidate pool relative to the requested limit.
	PoolFactor = 3

	DefaultReason = "Recommended for you"
)

// Scored is a candidate with its heuristic score and explanation.
type Scored struct {
	Item   models.MediaItem
	Score  float64
	Reason string
}

// PoolSize is how many catalog items to fetch for a given limit.
func PoolSize(limit int) int { return limit * PoolFactor }

// Rank scores candidates against p and returns at most limit of them, best
// first. Equal scores keep rating/popularity order.
func Rank(candidates []models.MediaItem, p Preferences, limit int) []Scored {
	if limit <= 0 || len(candidates) == 0 {
		return []Scored{}
	}

	pool := make([]models.MediaItem, len(candidates))
	copy(pool, candidates)
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Rating != pool[j].Rating {
			return pool[i].Rating > pool[j].Rating
		}
		return pool[i].Popularity > pool[j].Popularity
	})

	scored := make([]Scored, 0, len(pool))
	for _, item := range pool {
		if _, seen := p.Exclude[item.ID]; seen {
			continue
		}
		scored = append(scored, Scored{
			Item:   item,
			Score:  ScoreItem(item, p),
			Reason: Reason(item, p),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// ScoreItem applies the weights above and clamps to [0, 1].
func ScoreItem(item models.MediaItem, p Preferences) float64 {
	score := BaseScore
	score += GenreWeight * float64(len(overlap(item.Genres, p.LikedGenres)))

	switch {
	case item.Rating >= HighRatingThreshold:
		score += HighRatingBonus
	case item.Rating >= GoodRatingThreshold:
		score += GoodRatingBonus
	}

	if _, ok := p.LikedKinds[item.Kind]; ok {
		score += KindBonus
	}
	if item.Popularity > PopularityThreshold {
		score += PopularityBonus
	}
	return clamp(score)
}

// Reason renders the human-readable explanation for item. Genre, rating and
// kind parts are independent; the liked-title and default fallbacks apply only
// when none of them does.
func Reason(item models.MediaItem, p Preferences) string {
	var parts []string
	if genres := overlap(item.Genres, p.LikedGenres); len(genres) > 0 {
		parts = append(parts, "Because of genres you enjoy: "+strings.Join(genres, ", "))
	}
	switch {
	case item.Rating >= HighRatingThreshold:
		parts = append(parts, "it is highly rated")
	case item.Rating >= GoodRatingThreshold:
		parts = append(parts, "it is well rated")
	}
	if _, ok := p.LikedKinds[item.Kind]; ok {
		parts = append(parts, "you enjoy "+string(item.Kind)+"s")
	}
	if len(parts) > 0 {
		return strings.Join(parts, " and ")
	}

	if len(p.LikedTitles) > 0 {
		return `Because you liked "` + p.LikedTitles[0] + `"`
	}
	return DefaultReason
}

// overlap keeps the candidate's own genre order.
func overlap(genres []string, liked map[string]struct{}) []string {
	var out []string
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		if _, ok := liked[g]; !ok {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
