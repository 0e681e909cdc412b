package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	svc    service.CollectionService
	logger *slog.Logger
}

func NewCollectionHandler(svc service.CollectionService, logger *slog.Logger) *CollectionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionHandler{svc: svc, logger: logger}
}

func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	collections := rg.Group("/collections")
	{
		collections.GET("", h.List)
		collections.GET("/:slug", h.Get)
	}

	mod := rg.Group("/moderation/collections", middleware.RequireRole(middleware.RoleModerator))
	{
		mod.POST("", h.Create)
		mod.PUT("/:slug/books", h.SetBooks)
		mod.DELETE("/:slug", h.Deactivate)
	}
}

// List returns active collections
// GET /api/collections
func (h *CollectionHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListActive(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	data := make([]dto.CollectionSummaryResponse, 0, len(list))
	for _, s := range list {
		data = append(data, dto.FromCollectionSummary(s))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Get returns an active collection with its approved books
// GET /api/collections/:slug
func (h *CollectionHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	coll, err := h.svc.GetBySlug(ctx, strings.ToLower(c.Param("slug")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCollectionResponse(coll))
}

// Create adds a collection
// POST /api/moderation/collections
func (h *CollectionHandler) Create(c *gin.Context) {
	moderatorID, _ := middleware.UserID(c)

	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	coll, err := h.svc.Create(ctx, moderatorID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToCollectionResponse(coll))
}

// SetBooks replaces the books of a collection
// PUT /api/moderation/collections/:slug/books
func (h *CollectionHandler) SetBooks(c *gin.Context) {
	moderatorID, _ := middleware.UserID(c)

	var req dto.SetCollectionBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	coll, err := h.svc.SetBooks(ctx, moderatorID, strings.ToLower(c.Param("slug")), req.BookIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCollectionResponse(coll))
}

// Deactivate hides a collection from readers
// DELETE /api/moderation/collections/:slug
func (h *CollectionHandler) Deactivate(c *gin.Context) {
	moderatorID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Deactivate(ctx, moderatorID, strings.ToLower(c.Param("slug"))); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, service.ErrCollectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownBook):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": service.ErrUnknownBook.Error()})
	default:
		h.logger.Error("collection_request_failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
