package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// AddToLibraryRequest puts a book on a shelf, or moves it there
type AddToLibraryRequest struct {
	BookID   int64   `json:"book_id" binding:"required,min=1"`
	ListType string  `json:"list_type" binding:"required"`
	Liked    bool    `json:"liked"`
	Rating   *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comment  *string `json:"comment,omitempty"`
}

// LibraryResponse: one book on a shelf
type LibraryResponse struct {
	ID       int64              `json:"id"`
	BookID   int64              `json:"book_id"`
	ListType string             `json:"list_type"`
	Liked    bool               `json:"liked"`
	Rating   *int               `json:"rating,omitempty"`
	Comment  *string            `json:"comment,omitempty"`
	AddedAt  time.Time          `json:"added_at"`
	Book     *BookBasicResponse `json:"book,omitempty"`
}

// LibraryListResponse: list of library items
type LibraryListResponse struct {
	Items []LibraryResponse `json:"items"`
	Total int               `json:"total"`
}

func FromModelToLibraryResponse(rel models.UserBookRelation) LibraryResponse {
	resp := LibraryResponse{
		ID:       rel.ID,
		BookID:   rel.BookID,
		ListType: rel.ListType,
		Liked:    rel.Liked,
		Rating:   rel.Rating,
		Comment:  rel.Comment,
		AddedAt:  rel.AddedAt,
	}
	if rel.Book != nil {
		b := FromModelToBasicResponse(*rel.Book)
		resp.Book = &b
	}
	return resp
}
