package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bookhub/internal/recommender"

	"github.com/goccy/go-json"
)

var ErrInvalidRecord = errors.New("invalid catalog record")

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return records, nil
}

// normalize validates rec. Unknown genres fall back to "other", blank author names are dropped.
func normalize(rec Record) (book, error) {
	b := book{
		title:       collapseSpaces(rec.Title),
		description: rec.Description,
		worldRating: rec.WorldRating,
		approved:    rec.Approved,
	}
	if b.title == "" {
		return book{}, fmt.Errorf("%w: empty title", ErrInvalidRecord)
	}

	g, ok := recommender.ParseGenre(rec.Genre)
	if !ok {
		g = recommender.GenreOther
	}
	b.genre = g

	if r := rec.WorldRating; r != nil && (*r < 0 || *r > 5) {
		return book{}, fmt.Errorf("%w: %q world_rating %.2f out of range", ErrInvalidRecord, b.title, *r)
	}

	if d := strings.TrimSpace(rec.PublishedDate); d != "" {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return book{}, fmt.Errorf("%w: %q published_date: %v", ErrInvalidRecord, b.title, err)
		}
		b.published = &t
	}

	seen := make(map[string]struct{}, len(rec.Authors))
	for _, a := range rec.Authors {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		key := strings.ToLower(a.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		b.authors = append(b.authors, a)
	}
	return b, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleKey matches the titleKeySQL expression on stored titles.
func titleKey(title string) string {
	return strings.ToLower(collapseSpaces(title))
}
