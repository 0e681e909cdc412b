package service

import (
	"context"
	"errors"
	"fmt"

	"bookhub/internal/recommender"
)

var ErrInvalidLimit = errors.New("invalid recommendation limit")

// DefaultRecommendationLimit is what update_recommendations uses when no limit is given.
const DefaultRecommendationLimit = 10

type RecommendationService interface {
	// GetRecommendations ranks books under strategy. limit 0 selects the default.
	GetRecommendations(ctx context.Context, userID string, limit int, strategy string) ([]recommender.Recommendation, error)
	// UpdateRecommendations recomputes recommendations with the mixed strategy. Nothing is persisted.
	UpdateRecommendations(ctx context.Context, userID string, limit int) ([]recommender.Recommendation, error)
}

// Recommender is satisfied by *recommender.Engine.
type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int, strategy recommender.Strategy) ([]recommender.Recommendation, error)
}

type recommendationService struct {
	engine   Recommender
	maxLimit int
}

func NewRecommendationService(engine Recommender, maxLimit int) RecommendationService {
	if maxLimit < DefaultRecommendationLimit {
		maxLimit = DefaultRecommendationLimit
	}
	return &recommendationService{engine: engine, maxLimit: maxLimit}
}

func (s *recommendationService) GetRecommendations(ctx context.Context, userID string, limit int, strategy string) ([]recommender.Recommendation, error) {
	if limit == 0 {
		limit = DefaultRecommendationLimit
	}
	if limit < 0 || limit > s.maxLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, s.maxLimit)
	}
	return s.engine.Recommend(ctx, userID, limit, recommender.ParseStrategy(strategy))
}

func (s *recommendationService) UpdateRecommendations(ctx context.Context, userID string, limit int) ([]recommender.Recommendation, error) {
	return s.GetRecommendations(ctx, userID, limit, string(recommender.StrategyMixed))
}
