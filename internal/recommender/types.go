package recommender

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrProfileNotFound is returned by a PreferenceStore when the user never completed the survey.
	ErrProfileNotFound = errors.New("survey profile not found")
)

// Book is the catalog view the recommender works with.
type Book struct {
	ID          int64
	Title       string
	Genre       Genre
	AuthorIDs   []int64
	WorldRating *float64 // 0.0 - 5.0, nil when unknown
	Approved    bool
}

// Profile is a user's committed survey answers as the recommender sees them.
type Profile struct {
	UserID            string
	GenreWeights      GenreWeights
	FavoriteAuthorIDs []int64
	FavoriteBookIDs   []int64
}

// History groups a user's reading relations by what they mean for recommendations.
type History struct {
	BookIDs      []int64 // every book with a relation, any list type
	LikedBookIDs []int64
	RatedBookIDs []int64
}

// SimilarCandidate is a catalog book with its review aggregates.
type SimilarCandidate struct {
	BookID        int64
	Genre         Genre
	RatingCount   int64
	AverageRating float64
}

// Recommendation is a single entry of a ranked result.
type Recommendation struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	WorldRating *float64 `json:"world_rating"`
}

// PoolQuery describes the candidate pool for content-based ranking.
type PoolQuery struct {
	MinWorldRating float64
	BannedGenres   []Genre
	ExcludeIDs     []int64
}

// SimilarQuery selects approved books sharing a genre or an author with the seeds.
type SimilarQuery struct {
	Genres     []Genre
	AuthorIDs  []int64
	ExcludeIDs []int64
}

// Catalog is the read-only book store.
type Catalog interface {
	// CandidatePool returns approved books matching q, ordered by ascending id.
	CandidatePool(ctx context.Context, q PoolQuery) ([]Book, error)
	// BooksByIDs returns the books with the given ids in any order. Missing ids are skipped.
	BooksByIDs(ctx context.Context, ids []int64) ([]Book, error)
	// SimilarCandidates returns review aggregates for books matching q.
	SimilarCandidates(ctx context.Context, q SimilarQuery) ([]SimilarCandidate, error)
}

// PreferenceStore loads survey profiles.
type PreferenceStore interface {
	// Profile returns ErrProfileNotFound when the user has no survey profile.
	Profile(ctx context.Context, userID string) (*Profile, error)
}

// HistoryStore loads reading relations.
type HistoryStore interface {
	ReadingHistory(ctx context.Context, userID string) (*History, error)
}

// Strategy selects how recommendations are ranked.
type Strategy string

const (
	StrategyContent Strategy = "content"
	StrategySimilar Strategy = "similar"
	StrategyMixed   Strategy = "mixed"
)

// ParseStrategy is case-insensitive. Empty and unknown values select StrategyMixed.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyContent:
		return StrategyContent
	case StrategySimilar:
		return StrategySimilar
	default:
		return StrategyMixed
	}
}
