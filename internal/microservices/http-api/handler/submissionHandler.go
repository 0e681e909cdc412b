package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	svc    service.SubmissionService
	logger *slog.Logger
}

func NewSubmissionHandler(svc service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts reader submission routes and the moderator-only queue.
func (h *SubmissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/books", h.Submit)
	rg.GET("/submissions", h.ListMine)

	mod := rg.Group("/moderation/books", middleware.RequireRole(middleware.RoleModerator))
	{
		mod.GET("", h.ListPending)
		mod.POST("/:book_id/approve", h.Approve)
		mod.POST("/:book_id/reject", h.Reject)
	}
}

// Submit proposes a new book, it is hidden until approved
// POST /api/books
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.SubmitBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.svc.Submit(ctx, userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToSubmissionResponse(*book))
}

// ListMine pages through the caller's submissions with their moderation status
// GET /api/submissions?page=1&page_size=20
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	page, pageSize := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	books, total, err := h.svc.ListMine(ctx, userID, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissionList(books, page, pageSize, total))
}

// ListPending is the moderation queue, oldest first
// GET /api/moderation/books?page=1&page_size=20
func (h *SubmissionHandler) ListPending(c *gin.Context) {
	page, pageSize := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	books, total, err := h.svc.ListPending(ctx, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissionList(books, page, pageSize, total))
}

// Approve publishes a pending book
// POST /api/moderation/books/:book_id/approve
func (h *SubmissionHandler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

// Reject closes a pending submission, a comment is required
// POST /api/moderation/books/:book_id/reject
func (h *SubmissionHandler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject)
}

type decisionFunc func(ctx context.Context, moderatorID string, bookID int64, comment *string) (*models.Book, error)

func (h *SubmissionHandler) decide(c *gin.Context, fn decisionFunc) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	moderatorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ModerationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := fn(ctx, moderatorID, bookID, req.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToSubmissionResponse(*book))
}

func (h *SubmissionHandler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, service.ErrInvalidGenre):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "genre"})
	case errors.Is(err, service.ErrUnknownAuthor):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": service.ErrUnknownAuthor.Error()})
	case errors.Is(err, service.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("submission_request_failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func submissionList(books []models.Book, page, pageSize int, total int64) dto.SubmissionListResponse {
	data := make([]dto.SubmissionResponse, 0, len(books))
	for _, b := range books {
		data = append(data, dto.FromModelToSubmissionResponse(b))
	}
	return dto.SubmissionListResponse{
		Data:       data,
		Pagination: dto.NewPagination(page, pageSize, total),
	}
}
