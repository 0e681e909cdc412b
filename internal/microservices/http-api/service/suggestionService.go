package service

import (
	"context"
	"errors"
	"strings"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/recommender"
)

const (
	// seed books are the very best rated, stricter than the recommendation pool
	seedMinWorldRating = 4.8
	defaultSeedLimit   = 50
	autocompleteLimit  = 10
)

type SuggestionService interface {
	// SeedBooks lists top-rated books for the favorite-books step, honoring the user's genres.
	SeedBooks(ctx context.Context, userID string, limit int) ([]dto.BookSuggestion, error)
	// AutocompleteBooks matches titles among the seed books. An empty query returns the top seeds.
	AutocompleteBooks(ctx context.Context, userID, query string) ([]dto.BookSuggestion, error)
	AutocompleteAuthors(ctx context.Context, query string) ([]dto.AuthorSuggestion, error)
}

type BookSearcher interface {
	SeedBooks(ctx context.Context, f repository.SeedFilter, limit int) ([]models.Book, error)
	SearchSeedBooks(ctx context.Context, f repository.SeedFilter, query string, limit int) ([]models.Book, error)
}

type AuthorSearcher interface {
	SearchByName(ctx context.Context, query string, limit int) ([]models.Author, error)
}

type WeightsSource interface {
	GenreWeights(ctx context.Context, userID string) (recommender.GenreWeights, error)
}

type suggestionService struct {
	books   BookSearcher
	authors AuthorSearcher
	weights WeightsSource
	drafts  repository.SurveyDraftStore
}

func NewSuggestionService(books BookSearcher, authors AuthorSearcher, weights WeightsSource, drafts repository.SurveyDraftStore) SuggestionService {
	return &suggestionService{books: books, authors: authors, weights: weights, drafts: drafts}
}

func (s *suggestionService) SeedBooks(ctx context.Context, userID string, limit int) ([]dto.BookSuggestion, error) {
	if limit <= 0 {
		limit = defaultSeedLimit
	}
	f, err := s.seedFilter(ctx, userID)
	if err != nil {
		return nil, err
	}
	books, err := s.books.SeedBooks(ctx, f, limit)
	if err != nil {
		return nil, err
	}
	return toBookSuggestions(books), nil
}

func (s *suggestionService) AutocompleteBooks(ctx context.Context, userID, query string) ([]dto.BookSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.SeedBooks(ctx, userID, autocompleteLimit)
	}
	f, err := s.seedFilter(ctx, userID)
	if err != nil {
		return nil, err
	}
	books, err := s.books.SearchSeedBooks(ctx, f, query, autocompleteLimit)
	if err != nil {
		return nil, err
	}
	return toBookSuggestions(books), nil
}

func (s *suggestionService) AutocompleteAuthors(ctx context.Context, query string) ([]dto.AuthorSuggestion, error) {
	authors, err := s.authors.SearchByName(ctx, strings.TrimSpace(query), autocompleteLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuthorSuggestion, 0, len(authors))
	for i := range authors {
		out = append(out, dto.FromModelToAuthorSuggestion(&authors[i]))
	}
	return out, nil
}

// seedFilter takes genres from the in-progress draft when there is one, else from the committed preferences.
func (s *suggestionService) seedFilter(ctx context.Context, userID string) (repository.SeedFilter, error) {
	f := repository.SeedFilter{MinWorldRating: seedMinWorldRating}

	draft, err := s.drafts.Get(ctx, userID)
	switch {
	case err == nil:
		f.Preferred = toGenres(draft.PreferredGenres)
		f.Banned = toGenres(draft.BannedGenres)
		return f, nil
	case !errors.Is(err, repository.ErrDraftNotFound):
		return f, err
	}

	weights, err := s.weights.GenreWeights(ctx, userID)
	if err != nil {
		return f, err
	}
	f.Preferred = weights.Preferred()
	f.Banned = weights.Banned()
	return f, nil
}

func toGenres(codes []string) []recommender.Genre {
	out := make([]recommender.Genre, 0, len(codes))
	for _, c := range codes {
		out = append(out, recommender.Genre(c))
	}
	return out
}

func toBookSuggestions(books []models.Book) []dto.BookSuggestion {
	out := make([]dto.BookSuggestion, 0, len(books))
	for i := range books {
		out = append(out, dto.FromModelToBookSuggestion(&books[i]))
	}
	return out
}
