package models

import "time"

// Personal list a book sits in.
const (
	ListWant        = "want"
	ListRead        = "read"
	ListInProgress  = "in_progress"
	ListStop        = "stop"
	ListFavorite    = "favorite"
	ListBlacklist   = "blacklist"
	ListRecommended = "recommended"
)

// ListTypes lists every shelf in display order.
var ListTypes = []string{ListWant, ListRead, ListInProgress, ListStop, ListFavorite, ListBlacklist, ListRecommended}

// ValidListType reports whether s names a shelf.
func ValidListType(s string) bool {
	for _, lt := range ListTypes {
		if lt == s {
			return true
		}
	}
	return false
}

// UserBookRelation is a user's single relation to a book: the list it sits in,
// whether they liked it and their own rating.
type UserBookRelation struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_relation_user_book"`
	BookID   int64     `json:"book_id" gorm:"not null;uniqueIndex:idx_relation_user_book"`
	ListType string    `json:"list_type" gorm:"size:20;not null"`
	Liked    bool      `json:"liked" gorm:"not null;default:false"`
	Rating   *int      `json:"rating,omitempty" gorm:"check:rating IS NULL OR (rating >= 1 AND rating <= 5)"`
	Comment  *string   `json:"comment,omitempty"`
	AddedAt  time.Time `json:"added_at" gorm:"default:CURRENT_TIMESTAMP"`

	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (UserBookRelation) TableName() string {
	return "user_book_relations"
}
