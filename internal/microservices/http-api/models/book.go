package models

import "time"

type Book struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" gorm:"size:255;not null"`
	Genre         string     `json:"genre" gorm:"size:50;not null;default:'other';index"`
	Description   *string    `json:"description,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty" gorm:"type:date"`
	WorldRating   *float64   `json:"world_rating,omitempty" gorm:"index"`
	IsApproved    bool       `json:"is_approved" gorm:"not null;default:false;index"`
	SubmittedBy   *string    `json:"submitted_by,omitempty" gorm:"type:uuid;index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`

	// moderation outcome; ReviewedAt stays nil while the book waits in the queue
	ModerationComment *string    `json:"moderation_comment,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`

	// association
	Authors []Author `json:"authors,omitempty" gorm:"many2many:book_authors;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}

// AuthorIDs returns the ids of the preloaded authors.
func (b *Book) AuthorIDs() []int64 {
	ids := make([]int64, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}

// Submission states derived from IsApproved and ReviewedAt.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

func (b *Book) SubmissionStatus() string {
	switch {
	case b.IsApproved:
		return SubmissionApproved
	case b.ReviewedAt != nil:
		return SubmissionRejected
	default:
		return SubmissionPending
	}
}
