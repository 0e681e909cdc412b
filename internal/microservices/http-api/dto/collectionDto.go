package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

// CreateCollectionRequest: the slug is derived from the title when omitted
type CreateCollectionRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Slug        string  `json:"slug" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	BookIDs     []int64 `json:"book_ids" binding:"omitempty,dive,gt=0"`
}

type SetCollectionBooksRequest struct {
	BookIDs []int64 `json:"book_ids" binding:"dive,gt=0"`
}

type CollectionSummaryResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	BookCount   int64     `json:"book_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type CollectionResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description *string             `json:"description,omitempty"`
	Books       []BookBasicResponse `json:"books"`
	CreatedAt   time.Time           `json:"created_at"`
}

func FromCollectionSummary(s repository.CollectionSummary) CollectionSummaryResponse {
	return CollectionSummaryResponse{
		ID:          s.ID,
		Title:       s.Title,
		Slug:        s.Slug,
		Description: s.Description,
		BookCount:   s.BookCount,
		CreatedAt:   s.CreatedAt,
	}
}

func FromModelToCollectionResponse(c *models.GlobalCollection) CollectionResponse {
	books := make([]BookBasicResponse, 0, len(c.Books))
	for _, b := range c.Books {
		books = append(books, FromModelToBasicResponse(b))
	}
	return CollectionResponse{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		Books:       books,
		CreatedAt:   c.CreatedAt,
	}
}
