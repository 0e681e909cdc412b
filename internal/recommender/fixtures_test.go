package recommender

import (
	"context"
	"errors"
	"sort"
)

var errStoreDown = errors.New("store unavailable")

func ratingPtr(f float64) *float64 { return &f }

// memCatalog is an in-memory Catalog with the same filtering rules as the postgres repository.
type memCatalog struct {
	books   []Book
	reviews map[int64][]int
	err     error

	booksByIDsCalls int
}

func (c *memCatalog) CandidatePool(_ context.Context, q PoolQuery) ([]Book, error) {
	if c.err != nil {
		return nil, c.err
	}
	banned := make(map[Genre]struct{})
	for _, g := range q.BannedGenres {
		banned[g] = struct{}{}
	}
	excluded := idSet(q.ExcludeIDs)

	var out []Book
	for _, b := range c.books {
		if !b.Approved || b.WorldRating == nil || *b.WorldRating < q.MinWorldRating {
			continue
		}
		if _, ok := banned[b.Genre]; ok {
			continue
		}
		if _, ok := excluded[b.ID]; ok {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *memCatalog) BooksByIDs(_ context.Context, ids []int64) ([]Book, error) {
	c.booksByIDsCalls++
	if c.err != nil {
		return nil, c.err
	}
	want := idSet(ids)
	var out []Book
	// reverse order so callers can't rely on the store preserving rank
	for i := len(c.books) - 1; i >= 0; i-- {
		if _, ok := want[c.books[i].ID]; ok {
			out = append(out, c.books[i])
		}
	}
	return out, nil
}

func (c *memCatalog) SimilarCandidates(_ context.Context, q SimilarQuery) ([]SimilarCandidate, error) {
	if c.err != nil {
		return nil, c.err
	}
	genres := make(map[Genre]struct{})
	for _, g := range q.Genres {
		genres[g] = struct{}{}
	}
	authors := NewAuthorSet(q.AuthorIDs)
	excluded := idSet(q.ExcludeIDs)

	var out []SimilarCandidate
	for _, b := range c.books {
		if !b.Approved {
			continue
		}
		if _, ok := excluded[b.ID]; ok {
			continue
		}
		_, genreMatch := genres[b.Genre]
		if !genreMatch && !authors.Intersects(b.AuthorIDs) {
			continue
		}
		ratings := c.reviews[b.ID]
		var sum int
		for _, r := range ratings {
			sum += r
		}
		var avg float64
		if len(ratings) > 0 {
			avg = float64(sum) / float64(len(ratings))
		}
		out = append(out, SimilarCandidate{
			BookID:        b.ID,
			Genre:         b.Genre,
			RatingCount:   int64(len(ratings)),
			AverageRating: avg,
		})
	}
	return out, nil
}

type memPrefs struct {
	profiles map[string]*Profile
	err      error
}

func (p *memPrefs) Profile(_ context.Context, userID string) (*Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	profile, ok := p.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

type memHistory struct {
	histories map[string]*History
	err       error
}

func (h *memHistory) ReadingHistory(_ context.Context, userID string) (*History, error) {
	if h.err != nil {
		return nil, h.err
	}
	if hist, ok := h.histories[userID]; ok {
		return hist, nil
	}
	return &History{}, nil
}

const (
	readerID   = "7d5f0c1e-2a4b-4f3e-9a51-0c8e6b2d4f10"
	strangerID = "0b9e2d47-5c1a-4b8f-8e3d-6f2a1c9d7e55"
)

// fixture builds a small catalog. For readerID the content ranking of the pool is
// 2 (1.0), 4 (0.652), 8 (0.54), 1 (0.27) and the similar ranking of the liked books is 1, 2, 6.
func fixture() (*memCatalog, *memPrefs, *memHistory) {
	catalog := &memCatalog{
		books: []Book{
			{ID: 1, Title: "Dune", Genre: GenreSciFi, AuthorIDs: []int64{2}, WorldRating: ratingPtr(4.5), Approved: true},
			{ID: 2, Title: "The Hobbit", Genre: GenreFantasy, AuthorIDs: []int64{1}, WorldRating: ratingPtr(5.0), Approved: true},
			{ID: 3, Title: "Pride and Prejudice", Genre: GenreRomance, AuthorIDs: []int64{1}, WorldRating: ratingPtr(4.9), Approved: true},
			{ID: 4, Title: "Earthsea", Genre: GenreFantasy, AuthorIDs: []int64{3}, WorldRating: ratingPtr(4.2), Approved: true},
			{ID: 5, Title: "Pending Review", Genre: GenreFantasy, AuthorIDs: []int64{1}, WorldRating: ratingPtr(5.0), Approved: false},
			{ID: 6, Title: "Middling Saga", Genre: GenreFantasy, AuthorIDs: []int64{1}, WorldRating: ratingPtr(3.5), Approved: true},
			{ID: 7, Title: "The Silmarillion", Genre: GenreFantasy, AuthorIDs: []int64{1}, WorldRating: ratingPtr(4.8), Approved: true},
			{ID: 8, Title: "The Big Sleep", Genre: GenreDetective, AuthorIDs: []int64{1}, WorldRating: ratingPtr(4.0), Approved: true},
			{ID: 9, Title: "Hyperion", Genre: GenreFantasy, AuthorIDs: []int64{2}, WorldRating: ratingPtr(4.6), Approved: true},
			{ID: 10, Title: "Unrated", Genre: GenreFantasy, AuthorIDs: []int64{3}, Approved: true},
		},
		reviews: map[int64][]int{
			1: {5, 5, 4},
			2: {5, 4, 4, 5},
			3: {5, 5, 5},
			4: {5, 5},
			6: {4, 4, 4, 4, 4},
			8: {3, 4, 4},
		},
	}

	prefs := &memPrefs{profiles: map[string]*Profile{
		readerID: {
			UserID:            readerID,
			GenreWeights:      GenreWeights{GenreFantasy: WeightPreferred, GenreRomance: WeightBanned},
			FavoriteAuthorIDs: []int64{1},
		},
	}}

	history := &memHistory{histories: map[string]*History{
		readerID: {
			BookIDs:      []int64{7, 9},
			LikedBookIDs: []int64{7, 9},
		},
	}}

	return catalog, prefs, history
}
