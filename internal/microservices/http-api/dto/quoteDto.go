package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/repository"
)

type CreateQuoteRequest struct {
	Text     string  `json:"text" binding:"required,max=5000"`
	Page     *int    `json:"page,omitempty" binding:"omitempty,gt=0"`
	Chapter  *string `json:"chapter,omitempty" binding:"omitempty,max=255"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// UpdateQuoteRequest changes only the fields that are present
type UpdateQuoteRequest struct {
	Text     *string `json:"text,omitempty" binding:"omitempty,max=5000"`
	Page     *int    `json:"page,omitempty" binding:"omitempty,gt=0"`
	Chapter  *string `json:"chapter,omitempty" binding:"omitempty,max=255"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

type QuoteResponse struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	Page       *int      `json:"page,omitempty"`
	Chapter    *string   `json:"chapter,omitempty"`
	IsPublic   bool      `json:"is_public"`
	LikesCount int64     `json:"likes_count"`
	LikedByMe  bool      `json:"liked_by_me"`
	CreatedAt  time.Time `json:"created_at"`
}

type QuoteListResponse struct {
	Data       []QuoteResponse `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

func FromQuoteView(q repository.QuoteView) QuoteResponse {
	return QuoteResponse{
		ID:         q.ID,
		BookID:     q.BookID,
		UserID:     q.UserID,
		Text:       q.Text,
		Page:       q.Page,
		Chapter:    q.Chapter,
		IsPublic:   q.IsPublic,
		LikesCount: q.LikesCount,
		LikedByMe:  q.LikedByMe,
		CreatedAt:  q.CreatedAt,
	}
}
