package recommender

import "sort"

// Score weights. They sum to 1 so a perfect match on every term scores 1.0.
const (
	genreFactor  = 0.4
	authorBonus  = 0.3
	ratingFactor = 0.3

	maxWorldRating = 5.0
)

// AuthorSet is a set of author ids.
type AuthorSet map[int64]struct{}

// NewAuthorSet builds a set from ids.
func NewAuthorSet(ids []int64) AuthorSet {
	s := make(AuthorSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Intersects reports whether any of ids is in s.
func (s AuthorSet) Intersects(ids []int64) bool {
	for _, id := range ids {
		if _, ok := s[id]; ok {
			return true
		}
	}
	return false
}

// Score computes the content-based affinity of a book:
//
//	0.4*genreWeight + 0.3 (shared favorite author) + 0.3*worldRating/5
//
// A missing world rating contributes nothing.
func Score(b Book, weights GenreWeights, favoriteAuthors AuthorSet) float64 {
	score := genreFactor * float64(weights.Weight(b.Genre))
	if favoriteAuthors.Intersects(b.AuthorIDs) {
		score += authorBonus
	}
	if b.WorldRating != nil {
		score += ratingFactor * (*b.WorldRating / maxWorldRating)
	}
	return score
}

// ScoredCandidate pairs a book id with its content score.
type ScoredCandidate struct {
	BookID int64
	Score  float64
}

// RankByScore scores every book and returns them by descending score.
// Ties keep the order of books.
func RankByScore(books []Book, weights GenreWeights, favoriteAuthors AuthorSet) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(books))
	for _, b := range books {
		scored = append(scored, ScoredCandidate{BookID: b.ID, Score: Score(b, weights, favoriteAuthors)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func topIDs(scored []ScoredCandidate, limit int) []int64 {
	if limit > len(scored) {
		limit = len(scored)
	}
	if limit <= 0 {
		return nil
	}
	ids := make([]int64, 0, limit)
	for _, c := range scored[:limit] {
		ids = append(ids, c.BookID)
	}
	return ids
}
