package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	weights := GenreWeights{GenreFantasy: WeightPreferred, GenreRomance: WeightBanned}
	favorites := NewAuthorSet([]int64{1, 42})

	tests := []struct {
		name string
		book Book
		want float64
	}{
		{
			name: "preferred genre, favorite author, top rating",
			book: Book{Genre: GenreFantasy, AuthorIDs: []int64{42}, WorldRating: ratingPtr(5.0)},
			want: 1.0,
		},
		{
			name: "missing rating contributes nothing",
			book: Book{Genre: GenreFantasy, AuthorIDs: []int64{42}},
			want: 0.7,
		},
		{
			name: "neutral genre, no favorite author",
			book: Book{Genre: GenreHistory, AuthorIDs: []int64{7}, WorldRating: ratingPtr(4.0)},
			want: 0.24,
		},
		{
			name: "banned genre goes negative",
			book: Book{Genre: GenreRomance, WorldRating: ratingPtr(0)},
			want: -0.4,
		},
		{
			name: "unknown genre code weighs zero",
			book: Book{Genre: Genre("space_opera"), AuthorIDs: []int64{1}},
			want: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.book, weights, favorites), 1e-9)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	b := Book{Genre: GenreSciFi, AuthorIDs: []int64{3, 4}, WorldRating: ratingPtr(4.37)}
	weights := GenreWeights{GenreSciFi: WeightPreferred}
	favorites := NewAuthorSet([]int64{4})

	first := Score(b, weights, favorites)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(b, weights, favorites))
	}
}

func TestScore_NilWeights(t *testing.T) {
	b := Book{Genre: GenreFantasy, WorldRating: ratingPtr(2.5)}
	assert.InDelta(t, 0.15, Score(b, nil, nil), 1e-9)
}

func TestRankByScore_StableTies(t *testing.T) {
	books := []Book{
		{ID: 30, Genre: GenreOther, WorldRating: ratingPtr(4.0)},
		{ID: 10, Genre: GenreOther, WorldRating: ratingPtr(4.5)},
		{ID: 20, Genre: GenreOther, WorldRating: ratingPtr(4.0)},
		{ID: 5, Genre: GenreOther, WorldRating: ratingPtr(4.0)},
	}

	ranked := RankByScore(books, GenreWeights{}, NewAuthorSet(nil))

	got := make([]int64, 0, len(ranked))
	for _, c := range ranked {
		got = append(got, c.BookID)
	}
	assert.Equal(t, []int64{10, 30, 20, 5}, got)
}

func TestTopIDs(t *testing.T) {
	scored := []ScoredCandidate{{BookID: 1}, {BookID: 2}, {BookID: 3}}

	assert.Equal(t, []int64{1, 2}, topIDs(scored, 2))
	assert.Equal(t, []int64{1, 2, 3}, topIDs(scored, 10))
	assert.Nil(t, topIDs(scored, 0))
}
