package catalog

import (
	"time"

	"bookhub/internal/recommender"
)

// AuthorRecord is an author as it appears in an import file.
type AuthorRecord struct {
	Name    string  `json:"name"`
	Century *int    `json:"century,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Record is one book in an import file. PublishedDate uses YYYY-MM-DD.
type Record struct {
	Title         string         `json:"title"`
	Genre         string         `json:"genre"`
	Authors       []AuthorRecord `json:"authors"`
	Description   *string        `json:"description,omitempty"`
	PublishedDate string         `json:"published_date,omitempty"`
	WorldRating   *float64       `json:"world_rating,omitempty"`
	Approved      bool           `json:"is_approved"`
}

// book is a Record after validation.
type book struct {
	title       string
	genre       recommender.Genre
	authors     []AuthorRecord
	description *string
	published   *time.Time
	worldRating *float64
	approved    bool
}

// Stats counts the outcome of an import run.
type Stats struct {
	Imported int64
	Skipped  int64
	Failed   int64
}
