package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/recommender"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.GET("", h.List)
		books.GET("/:book_id", h.Get)
	}
}

// List pages through approved books
// GET /api/books?q=earthsea&genre=fantasy&min_rating=4&page=1&page_size=20
func (h *BookHandler) List(c *gin.Context) {
	f := repository.BookFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Genre:    recommender.Genre(strings.TrimSpace(c.Query("genre"))),
		Page:     1,
		PageSize: 20,
	}

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			f.Page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			f.PageSize = parsed
		}
	}
	if mr := strings.TrimSpace(c.Query("min_rating")); mr != "" {
		minRating, err := strconv.ParseFloat(mr, 64)
		if err != nil || minRating < 0 || minRating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rating parameter, must be between 0 and 5"})
			return
		}
		f.MinRating = &minRating
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.svc.List(ctx, f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGenre) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
		return
	}

	resp := make([]dto.BookBasicResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromModelToBasicResponse(b))
	}
	c.JSON(http.StatusOK, dto.BookListResponse{
		Data:       resp,
		Pagination: dto.NewPagination(f.Page, f.PageSize, total),
	})
}

// Get returns one approved book
// GET /api/books/:book_id
func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load book"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToResponse(*b))
}
