package handler

import (
	"net/http"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/recommender"

	"github.com/gin-gonic/gin"
)

// GenreHandler serves the closed genre list used by the survey and catalog filters.
type GenreHandler struct{}

func NewGenreHandler() *GenreHandler {
	return &GenreHandler{}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genres", h.List)
}

// List returns every genre in display order
// GET /api/genres
func (h *GenreHandler) List(c *gin.Context) {
	resp := make([]dto.GenreResponse, 0, len(recommender.Genres))
	for _, g := range recommender.Genres {
		resp = append(resp, dto.GenreFromCode(g))
	}
	c.JSON(http.StatusOK, resp)
}
