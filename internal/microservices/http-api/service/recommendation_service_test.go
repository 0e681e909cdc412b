package service

import (
	"context"
	"errors"
	"testing"

	"bookhub/internal/recommender"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecommendationService_GetRecommendations(t *testing.T) {
	ctx := context.Background()
	recs := []recommender.Recommendation{{ID: 1, Title: "One"}}

	t.Run("DefaultLimit", func(t *testing.T) {
		engine := new(MockRecommender)
		svc := NewRecommendationService(engine, 50)
		engine.On("Recommend", ctx, testUserID, DefaultRecommendationLimit, recommender.StrategyMixed).Return(recs, nil).Once()

		got, err := svc.GetRecommendations(ctx, testUserID, 0, "")
		require.NoError(t, err)
		assert.Equal(t, recs, got)
		engine.AssertExpectations(t)
	})

	t.Run("ExplicitStrategy", func(t *testing.T) {
		engine := new(MockRecommender)
		svc := NewRecommendationService(engine, 50)
		engine.On("Recommend", ctx, testUserID, 3, recommender.StrategySimilar).Return(recs, nil).Once()

		_, err := svc.GetRecommendations(ctx, testUserID, 3, "similar")
		require.NoError(t, err)
		engine.AssertExpectations(t)
	})

	t.Run("LimitOutOfRange", func(t *testing.T) {
		engine := new(MockRecommender)
		svc := NewRecommendationService(engine, 20)

		for _, limit := range []int{-1, 21} {
			_, err := svc.GetRecommendations(ctx, testUserID, limit, "content")
			assert.ErrorIs(t, err, ErrInvalidLimit)
		}
		engine.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MaxLimitNeverBelowDefault", func(t *testing.T) {
		engine := new(MockRecommender)
		svc := NewRecommendationService(engine, 1)
		engine.On("Recommend", ctx, testUserID, DefaultRecommendationLimit, recommender.StrategyContent).Return(recs, nil).Once()

		_, err := svc.GetRecommendations(ctx, testUserID, DefaultRecommendationLimit, "content")
		assert.NoError(t, err)
	})

	t.Run("EngineError", func(t *testing.T) {
		engine := new(MockRecommender)
		svc := NewRecommendationService(engine, 50)
		boom := errors.New("store down")
		engine.On("Recommend", ctx, testUserID, 5, recommender.StrategyContent).Return(nil, boom).Once()

		_, err := svc.GetRecommendations(ctx, testUserID, 5, "content")
		assert.ErrorIs(t, err, boom)
	})
}

func TestRecommendationService_UpdateRecommendations(t *testing.T) {
	ctx := context.Background()
	engine := new(MockRecommender)
	svc := NewRecommendationService(engine, 50)
	engine.On("Recommend", ctx, testUserID, DefaultRecommendationLimit, recommender.StrategyMixed).
		Return([]recommender.Recommendation{}, nil).Once()

	got, err := svc.UpdateRecommendations(ctx, testUserID, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	engine.AssertExpectations(t)
}
