package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *slog.Logger
}

func NewReviewHandler(reviewService service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes nests reviews under a book.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/books/:book_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.GET("/summary", h.Summary)
		reviews.POST("", h.Upsert)
		reviews.GET("/me", h.GetMine)
		reviews.DELETE("", h.Delete)
	}
}

// Upsert creates or replaces the caller's review
// POST /api/books/:book_id/reviews
func (h *ReviewHandler) Upsert(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	review, err := h.reviewService.Upsert(ctx, userID, bookID, req.Rating, req.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(review))
}

// GetMine returns the caller's review of the book
// GET /api/books/:book_id/reviews/me
func (h *ReviewHandler) GetMine(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	review, err := h.reviewService.GetUserReview(ctx, userID, bookID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(review))
}

// List pages through a book's reviews, newest first
// GET /api/books/:book_id/reviews?page=1&page_size=20
func (h *ReviewHandler) List(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reviews, total, err := h.reviewService.ListBookReviews(ctx, bookID, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}

	data := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		data = append(data, dto.FromModelToReviewResponse(&reviews[i]))
	}
	c.JSON(http.StatusOK, dto.ReviewListResponse{
		Data:       data,
		Pagination: dto.NewPagination(page, pageSize, total),
	})
}

// Summary returns the average rating and review count
// GET /api/books/:book_id/reviews/summary
func (h *ReviewHandler) Summary(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sum, err := h.reviewService.Summary(ctx, bookID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewSummaryResponse{
		BookID:  bookID,
		Average: sum.Average,
		Count:   sum.Count,
	})
}

// Delete removes the caller's review
// DELETE /api/books/:book_id/reviews
func (h *ReviewHandler) Delete(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.reviewService.Delete(ctx, userID, bookID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound), errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("review_request_failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bookIDParam(c *gin.Context) (int64, bool) {
	return idParam(c, "book_id", "book")
}
