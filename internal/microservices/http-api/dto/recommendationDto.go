package dto

import (
	"time"

	"bookhub/internal/recommender"
)

// RecommendationQuery binds GET /api/recommendations query parameters
type RecommendationQuery struct {
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
	Strategy string `form:"strategy"`
}

// RecommendationResponse wraps a ranked list of books
type RecommendationResponse struct {
	UserID          string                       `json:"user_id"`
	Strategy        string                       `json:"strategy"`
	Recommendations []recommender.Recommendation `json:"recommendations"`
	GeneratedAt     time.Time                    `json:"generated_at"`
}
