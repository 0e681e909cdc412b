package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/recommender"
)

// SurveyStepRequest carries the answers of one survey step; only the fields of that step are read.
type SurveyStepRequest struct {
	PreferredGenres  []string `json:"preferred_genres"`
	BannedGenres     []string `json:"banned_genres"`
	ReadingGoal      string   `json:"reading_goal"`
	MoodTags         []string `json:"mood_tags"`
	ReadingFrequency float64  `json:"reading_frequency"`
	Languages        []string `json:"languages"`
	FavoriteAuthors  []int64  `json:"favorite_authors"`
	FavoriteBooks    []int64  `json:"favorite_books"`
	ContentFilters   []string `json:"content_filters"`
	OtherFilters     string   `json:"other_filters"`
}

// SurveySubmission is the one-shot form of the whole survey
type SurveySubmission struct {
	PreferredGenres  []string `json:"preferred_genres" binding:"required"`
	BannedGenres     []string `json:"banned_genres"`
	ReadingGoal      string   `json:"reading_goal" binding:"required"`
	MoodTags         []string `json:"mood_tags"`
	ReadingFrequency float64  `json:"reading_frequency" binding:"required,gt=0"`
	Languages        []string `json:"languages"`
	FavoriteAuthors  []int64  `json:"favorite_authors" binding:"required"`
	FavoriteBooks    []int64  `json:"favorite_books"`
	ContentFilters   []string `json:"content_filters"`
	OtherFilters     string   `json:"other_filters"`
}

// Step returns the submission fields as a step request
func (s *SurveySubmission) Step() SurveyStepRequest {
	return SurveyStepRequest{
		PreferredGenres:  s.PreferredGenres,
		BannedGenres:     s.BannedGenres,
		ReadingGoal:      s.ReadingGoal,
		MoodTags:         s.MoodTags,
		ReadingFrequency: s.ReadingFrequency,
		Languages:        s.Languages,
		FavoriteAuthors:  s.FavoriteAuthors,
		FavoriteBooks:    s.FavoriteBooks,
		ContentFilters:   s.ContentFilters,
		OtherFilters:     s.OtherFilters,
	}
}

// SurveyDraftResponse reports draft progress
type SurveyDraftResponse struct {
	Draft        *models.SurveyDraft `json:"draft"`
	MissingSteps []string            `json:"missing_steps"`
}

func NewSurveyDraftResponse(d *models.SurveyDraft) *SurveyDraftResponse {
	missing := d.MissingSteps()
	if missing == nil {
		missing = []string{}
	}
	return &SurveyDraftResponse{Draft: d, MissingSteps: missing}
}

// SurveyCompleteResponse is returned once a survey is committed
type SurveyCompleteResponse struct {
	CompletedAt     time.Time                    `json:"completed_at"`
	Recommendations []recommender.Recommendation `json:"recommendations"`
}
