package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// SubmitBookRequest proposes a book for the catalog; it stays hidden until a moderator approves it.
type SubmitBookRequest struct {
	Title         string  `json:"title" binding:"required,max=255"`
	Genre         string  `json:"genre" binding:"required"`
	AuthorIDs     []int64 `json:"author_ids" binding:"required,min=1,max=10,dive,gt=0"`
	Description   *string `json:"description,omitempty" binding:"omitempty,max=5000"`
	PublishedDate *string `json:"published_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// ModerationRequest carries the moderator's note; rejection requires one.
type ModerationRequest struct {
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=2000"`
}

type SubmissionResponse struct {
	BookResponse
	Status            string     `json:"status"`
	SubmittedBy       *string    `json:"submitted_by,omitempty"`
	ModerationComment *string    `json:"moderation_comment,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
}

type SubmissionListResponse struct {
	Data       []SubmissionResponse `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

func FromModelToSubmissionResponse(b models.Book) SubmissionResponse {
	return SubmissionResponse{
		BookResponse:      FromModelToResponse(b),
		Status:            b.SubmissionStatus(),
		SubmittedBy:       b.SubmittedBy,
		ModerationComment: b.ModerationComment,
		ReviewedAt:        b.ReviewedAt,
	}
}
