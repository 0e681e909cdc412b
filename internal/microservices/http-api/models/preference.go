package models

import "time"

type GenrePreference struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_genre_pref_user_genre"`
	Genre  string `json:"genre" gorm:"size:50;not null;uniqueIndex:idx_genre_pref_user_genre"`
	Weight int    `json:"weight" gorm:"not null;check:weight IN (-1, 1)"`
}

func (GenrePreference) TableName() string {
	return "genre_preferences"
}

// SurveyProfile holds the committed survey answers, one row per user.
type SurveyProfile struct {
	UserID           string    `json:"user_id" gorm:"primaryKey;type:uuid"`
	ReadingGoal      string    `json:"reading_goal" gorm:"size:50;not null"`
	ReadingFrequency float64   `json:"reading_frequency" gorm:"not null"`
	MoodTags         []string  `json:"mood_tags" gorm:"serializer:json"`
	Languages        []string  `json:"languages" gorm:"serializer:json"`
	ContentFilters   []string  `json:"content_filters" gorm:"serializer:json"`
	OtherFilters     string    `json:"other_filters"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (SurveyProfile) TableName() string {
	return "survey_profiles"
}

type SurveyFavoriteAuthor struct {
	UserID   string `json:"user_id" gorm:"primaryKey;type:uuid"`
	AuthorID int64  `json:"author_id" gorm:"primaryKey;index"`

	Profile *SurveyProfile `json:"-" gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE;"`
	Author  *Author        `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (SurveyFavoriteAuthor) TableName() string {
	return "survey_favorite_authors"
}

type SurveyFavoriteBook struct {
	UserID string `json:"user_id" gorm:"primaryKey;type:uuid"`
	BookID int64  `json:"book_id" gorm:"primaryKey;index"`

	Profile *SurveyProfile `json:"-" gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE;"`
	Book    *Book          `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (SurveyFavoriteBook) TableName() string {
	return "survey_favorite_books"
}
