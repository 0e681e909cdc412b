package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	svc    service.QuoteService
	logger *slog.Logger
}

func NewQuoteHandler(svc service.QuoteService, logger *slog.Logger) *QuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{svc: svc, logger: logger}
}

func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/books/:book_id/quotes", h.ListForBook)
	rg.POST("/books/:book_id/quotes", h.Create)

	quotes := rg.Group("/quotes")
	{
		quotes.GET("/me", h.ListMine)
		quotes.PUT("/:quote_id", h.Update)
		quotes.DELETE("/:quote_id", h.Delete)
		quotes.POST("/:quote_id/like", h.Like)
		quotes.DELETE("/:quote_id/like", h.Unlike)
	}
}

// Create saves a quote from a book, public unless is_public is false
// POST /api/books/:book_id/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	q, err := h.svc.Create(ctx, userID, bookID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromQuoteView(*q))
}

// ListForBook returns public quotes and the caller's private ones, newest first
// GET /api/books/:book_id/quotes?page=1&page_size=20
func (h *QuoteHandler) ListForBook(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	page, pageSize := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	quotes, total, err := h.svc.ListForBook(ctx, userID, bookID, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteList(quotes, page, pageSize, total))
}

// ListMine returns every quote of the caller
// GET /api/quotes/me
func (h *QuoteHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	page, pageSize := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	quotes, total, err := h.svc.ListMine(ctx, userID, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteList(quotes, page, pageSize, total))
}

// Update edits the caller's quote
// PUT /api/quotes/:quote_id
func (h *QuoteHandler) Update(c *gin.Context) {
	quoteID, ok := idParam(c, "quote_id", "quote")
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	q, err := h.svc.Update(ctx, userID, quoteID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromQuoteView(*q))
}

// Delete removes the caller's quote
// DELETE /api/quotes/:quote_id
func (h *QuoteHandler) Delete(c *gin.Context) {
	quoteID, ok := idParam(c, "quote_id", "quote")
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

	if err := h.svc.Delete(ctx, userID, quoteID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like marks a visible quote as liked by the caller
// POST /api/quotes/:quote_id/like
func (h *QuoteHandler) Like(c *gin.Context) {
	h.toggleLike(c, h.svc.Like)
}

// Unlike withdraws the caller's like
// DELETE /api/quotes/:quote_id/like
func (h *QuoteHandler) Unlike(c *gin.Context) {
	h.toggleLike(c, h.svc.Unlike)
}

func (h *QuoteHandler) toggleLike(c *gin.Context, fn func(ctx context.Context, userID string, quoteID int64) (*repository.QuoteView, error)) {
	quoteID, ok := idParam(c, "quote_id", "quote")
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

	q, err := fn(ctx, userID, quoteID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromQuoteView(*q))
}

func (h *QuoteHandler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, service.ErrBookNotFound), errors.Is(err, service.ErrQuoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("quote_request_failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func quoteList(quotes []repository.QuoteView, page, pageSize int, total int64) dto.QuoteListResponse {
	data := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		data = append(data, dto.FromQuoteView(q))
	}
	return dto.QuoteListResponse{
		Data:       data,
		Pagination: dto.NewPagination(page, pageSize, total),
	}
}
