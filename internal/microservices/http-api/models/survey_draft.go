package models

import (
	"slices"
	"time"
)

// Survey steps in the order the client walks them.
const (
	StepGenres    = "genres"
	StepBanned    = "banned"
	StepGoal      = "goal"
	StepFrequency = "frequency"
	StepAuthors   = "authors"
	StepBooks     = "books"
)

// SurveySteps lists every step; all but StepBooks are required before completion.
var SurveySteps = []string{StepGenres, StepBanned, StepGoal, StepFrequency, StepAuthors, StepBooks}

// SurveyDraft accumulates survey answers between steps. It lives in Redis until it is
// committed as a SurveyProfile plus genre preferences.
type SurveyDraft struct {
	UserID           string    `json:"user_id"`
	PreferredGenres  []string  `json:"preferred_genres"`
	BannedGenres     []string  `json:"banned_genres"`
	ReadingGoal      string    `json:"reading_goal"`
	MoodTags         []string  `json:"mood_tags"`
	ReadingFrequency float64   `json:"reading_frequency"`
	Languages        []string  `json:"languages"`
	FavoriteAuthors  []int64   `json:"favorite_authors"`
	FavoriteBooks    []int64   `json:"favorite_books"`
	ContentFilters   []string  `json:"content_filters"`
	OtherFilters     string    `json:"other_filters"`
	CompletedSteps   []string  `json:"completed_steps"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MarkStep records step as completed once.
func (d *SurveyDraft) MarkStep(step string) {
	if !slices.Contains(d.CompletedSteps, step) {
		d.CompletedSteps = append(d.CompletedSteps, step)
	}
}

// MissingSteps returns the required steps not yet completed, in walk order.
func (d *SurveyDraft) MissingSteps() []string {
	var missing []string
	for _, step := range SurveySteps {
		if step == StepBooks {
			continue
		}
		if !slices.Contains(d.CompletedSteps, step) {
			missing = append(missing, step)
		}
	}
	return missing
}
