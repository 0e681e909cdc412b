package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/recommender"
)

// BookBasicResponse is the list view of a book
type BookBasicResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Authors     []string `json:"authors"`
	WorldRating *float64 `json:"world_rating,omitempty"`
}

// BookResponse is the detail view of a book
type BookResponse struct {
	ID            int64              `json:"id"`
	Title         string             `json:"title"`
	Genre         string             `json:"genre"`
	GenreLabel    string             `json:"genre_label"`
	Authors       []AuthorSuggestion `json:"authors"`
	Description   *string            `json:"description,omitempty"`
	PublishedDate *time.Time         `json:"published_date,omitempty"`
	WorldRating   *float64           `json:"world_rating,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Pagination is attached to every paged list
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) Pagination {
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// BookListResponse is a page of books
type BookListResponse struct {
	Data       []BookBasicResponse `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

func FromModelToBasicResponse(b models.Book) BookBasicResponse {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return BookBasicResponse{
		ID:          b.ID,
		Title:       b.Title,
		Genre:       b.Genre,
		Authors:     names,
		WorldRating: b.WorldRating,
	}
}

func FromModelToResponse(b models.Book) BookResponse {
	authors := make([]AuthorSuggestion, 0, len(b.Authors))
	for i := range b.Authors {
		authors = append(authors, FromModelToAuthorSuggestion(&b.Authors[i]))
	}
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Genre:         b.Genre,
		GenreLabel:    recommender.Genre(b.Genre).Label(),
		Authors:       authors,
		Description:   b.Description,
		PublishedDate: b.PublishedDate,
		WorldRating:   b.WorldRating,
		CreatedAt:     b.CreatedAt,
	}
}
