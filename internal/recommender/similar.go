package recommender

import (
	"context"
	"fmt"
	"sort"
)

// Quality bar a similar book must clear.
const (
	MinSimilarRatings       = 3
	MinSimilarAverageRating = 4.0
)

// Exclusion removes books from similarity results before the limit is applied.
type Exclusion struct {
	Weights GenreWeights // banned genres are dropped
	BookIDs []int64
}

// SimilarityFinder finds catalog books that share a genre or an author with a set of seed books.
type SimilarityFinder struct {
	catalog Catalog
}

func NewSimilarityFinder(catalog Catalog) *SimilarityFinder {
	return &SimilarityFinder{catalog: catalog}
}

// FindSimilar returns up to limit book ids similar to seedIDs, best rated first.
// A book qualifies when it shares a genre OR an author with any seed, is not a seed itself,
// and has at least MinSimilarRatings reviews averaging MinSimilarAverageRating or more.
// No seeds means no results.
func (f *SimilarityFinder) FindSimilar(ctx context.Context, seedIDs []int64, limit int, ex Exclusion) ([]int64, error) {
	if len(seedIDs) == 0 || limit <= 0 {
		return nil, nil
	}

	seeds, err := f.catalog.BooksByIDs(ctx, seedIDs)
	if err != nil {
		return nil, fmt.Errorf("load seed books: %w", err)
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	genres, authors := seedFeatures(seeds)

	excluded := make(map[int64]struct{}, len(seedIDs)+len(ex.BookIDs))
	excludeIDs := make([]int64, 0, len(seedIDs)+len(ex.BookIDs))
	for _, ids := range [][]int64{seedIDs, ex.BookIDs} {
		for _, id := range ids {
			if _, ok := excluded[id]; ok {
				continue
			}
			excluded[id] = struct{}{}
			excludeIDs = append(excludeIDs, id)
		}
	}

	candidates, err := f.catalog.SimilarCandidates(ctx, SimilarQuery{
		Genres:     genres,
		AuthorIDs:  authors,
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("load similar candidates: %w", err)
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if _, ok := excluded[c.BookID]; ok {
			continue
		}
		if ex.Weights.IsBanned(c.Genre) {
			continue
		}
		if c.RatingCount < MinSimilarRatings || c.AverageRating < MinSimilarAverageRating {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].AverageRating != kept[j].AverageRating {
			return kept[i].AverageRating > kept[j].AverageRating
		}
		if kept[i].RatingCount != kept[j].RatingCount {
			return kept[i].RatingCount > kept[j].RatingCount
		}
		return kept[i].BookID < kept[j].BookID
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}
	ids := make([]int64, 0, len(kept))
	for _, c := range kept {
		ids = append(ids, c.BookID)
	}
	return ids, nil
}

// seedFeatures collects the distinct genres and author ids of the seeds.
func seedFeatures(seeds []Book) ([]Genre, []int64) {
	seenGenre := make(map[Genre]struct{})
	seenAuthor := make(map[int64]struct{})
	var genres []Genre
	var authors []int64
	for _, b := range seeds {
		if _, ok := seenGenre[b.Genre]; !ok {
			seenGenre[b.Genre] = struct{}{}
			genres = append(genres, b.Genre)
		}
		for _, a := range b.AuthorIDs {
			if _, ok := seenAuthor[a]; !ok {
				seenAuthor[a] = struct{}{}
				authors = append(authors, a)
			}
		}
	}
	return genres, authors
}
