package dto

import "bookhub/internal/microservices/http-api/models"

type BookSuggestion struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	WorldRating *float64 `json:"world_rating,omitempty"`
}

func FromModelToBookSuggestion(b *models.Book) BookSuggestion {
	return BookSuggestion{
		ID:          b.ID,
		Title:       b.Title,
		Genre:       b.Genre,
		WorldRating: b.WorldRating,
	}
}

type AuthorSuggestion struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func FromModelToAuthorSuggestion(a *models.Author) AuthorSuggestion {
	return AuthorSuggestion{ID: a.ID, Name: a.Name}
}
