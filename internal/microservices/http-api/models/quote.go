package models

import "time"

// Quote is a passage a reader saved from a book. Private quotes are visible to their owner only.
type Quote struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID    int64     `json:"book_id" gorm:"not null;index"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Text      string    `json:"text" gorm:"not null"`
	Page      *int      `json:"page,omitempty" gorm:"check:page > 0"`
	Chapter   *string   `json:"chapter,omitempty" gorm:"size:255"`
	IsPublic  bool      `json:"is_public" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Quote) TableName() string {
	return "quotes"
}

// QuoteLike records one user liking one quote.
type QuoteLike struct {
	QuoteID   int64     `json:"quote_id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Quote *Quote `json:"-" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE;"`
}

func (QuoteLike) TableName() string {
	return "quote_likes"
}
