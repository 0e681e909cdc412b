package models

import "time"

// GlobalCollection is an editorial shelf shared by every reader, addressed by slug.
type GlobalCollection struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;not null;uniqueIndex"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Books []Book `json:"books,omitempty" gorm:"many2many:collection_books;constraint:OnDelete:CASCADE;"`
}

func (GlobalCollection) TableName() string {
	return "global_collections"
}

type CollectionBook struct {
	GlobalCollectionID int64 `json:"collection_id" gorm:"primaryKey"`
	BookID             int64 `json:"book_id" gorm:"primaryKey;index"`
}

func (CollectionBook) TableName() string {
	return "collection_books"
}
