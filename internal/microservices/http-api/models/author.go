package models

type Author struct {
	ID      int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string  `json:"name" gorm:"size:255;not null;index"`
	Century *int    `json:"century,omitempty"`
	Country *string `json:"country,omitempty" gorm:"size:255"`
	Bio     *string `json:"bio,omitempty"`
}

func (Author) TableName() string {
	return "authors"
}

// explicit join model so the pair is unique
type BookAuthor struct {
	BookID   int64 `json:"book_id" gorm:"primaryKey"`
	AuthorID int64 `json:"author_id" gorm:"primaryKey;index"`
}

func (BookAuthor) TableName() string {
	return "book_authors"
}
