package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/recommender"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recService service.RecommendationService
	logger     *slog.Logger
}

func NewRecommendationHandler(recService service.RecommendationService, logger *slog.Logger) *RecommendationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationHandler{recService: recService, logger: logger}
}

// RegisterRoutes registers recommendation routes. refresh may carry extra middleware such as a rate limiter.
func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup, refresh ...gin.HandlerFunc) {
	recs := router.Group("/recommendations")
	{
		recs.GET("", h.List)
		recs.POST("/refresh", append(refresh, h.Refresh)...)
	}
}

// List returns ranked recommendations for the current user
// GET /api/recommendations?limit=10&strategy=mixed
func (h *RecommendationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var q dto.RecommendationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategy := recommender.ParseStrategy(q.Strategy)
	recs, err := h.recService.GetRecommendations(c.Request.Context(), userID, q.Limit, string(strategy))
	if err != nil {
		h.writeError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.RecommendationResponse{
		UserID:          userID,
		Strategy:        string(strategy),
		Recommendations: recs,
		GeneratedAt:     time.Now().UTC(),
	})
}

// Refresh recomputes recommendations with the default strategy
// POST /api/recommendations/refresh
func (h *RecommendationHandler) Refresh(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recs, err := h.recService.UpdateRecommendations(c.Request.Context(), userID, service.DefaultRecommendationLimit)
	if err != nil {
		h.writeError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.RecommendationResponse{
		UserID:          userID,
		Strategy:        string(recommender.StrategyMixed),
		Recommendations: recs,
		GeneratedAt:     time.Now().UTC(),
	})
}

func (h *RecommendationHandler) writeError(c *gin.Context, userID string, err error) {
	if errors.Is(err, service.ErrInvalidLimit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("recommendations_failed", "user_id", userID, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
}
