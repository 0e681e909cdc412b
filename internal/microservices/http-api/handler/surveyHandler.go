package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	surveyService     service.SurveyService
	suggestionService service.SuggestionService
	logger            *slog.Logger
}

func NewSurveyHandler(surveyService service.SurveyService, suggestionService service.SuggestionService, logger *slog.Logger) *SurveyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SurveyHandler{
		surveyService:     surveyService,
		suggestionService: suggestionService,
		logger:            logger,
	}
}

// RegisterRoutes registers survey routes
func (h *SurveyHandler) RegisterRoutes(router *gin.RouterGroup) {
	survey := router.Group("/survey")
	{
		survey.POST("", h.Submit)
		survey.GET("/draft", h.GetDraft)
		survey.DELETE("/draft", h.DiscardDraft)
		survey.PUT("/steps/:step", h.SaveStep)
		survey.POST("/complete", h.Complete)

		survey.GET("/suggestions/books", h.SuggestBooks)
		survey.GET("/suggestions/authors", h.SuggestAuthors)
	}
}

// GetDraft returns the in-progress survey
// GET /api/survey/draft
func (h *SurveyHandler) GetDraft(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	draft, err := h.surveyService.GetDraft(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSurveyDraftResponse(draft))
}

// DiscardDraft drops the in-progress survey
// DELETE /api/survey/draft
func (h *SurveyHandler) DiscardDraft(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.surveyService.Discard(c.Request.Context(), userID); err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Survey draft discarded"})
}

// SaveStep validates one step and merges it into the draft
// PUT /api/survey/steps/:step
func (h *SurveyHandler) SaveStep(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SurveyStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.surveyService.SaveStep(c.Request.Context(), userID, c.Param("step"), req)
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSurveyDraftResponse(draft))
}

// Complete commits the draft
// POST /api/survey/complete
func (h *SurveyHandler) Complete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recs, err := h.surveyService.Complete(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, dto.SurveyCompleteResponse{CompletedAt: time.Now().UTC(), Recommendations: recs})
}

// Submit commits a whole survey in one request
// POST /api/survey
func (h *SurveyHandler) Submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SurveySubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recs, err := h.surveyService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, dto.SurveyCompleteResponse{CompletedAt: time.Now().UTC(), Recommendations: recs})
}

// SuggestBooks autocompletes book titles among the seed books
// GET /api/survey/suggestions/books?q=hobbit&limit=50
func (h *SurveyHandler) SuggestBooks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var (
		books []dto.BookSuggestion
		err   error
	)
	if q := c.Query("q"); q != "" {
		books, err = h.suggestionService.AutocompleteBooks(c.Request.Context(), userID, q)
	} else {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if limit < 1 || limit > 100 {
			limit = 50
		}
		books, err = h.suggestionService.SeedBooks(c.Request.Context(), userID, limit)
	}
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// SuggestAuthors autocompletes author names
// GET /api/survey/suggestions/authors?q=tolk
func (h *SurveyHandler) SuggestAuthors(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	authors, err := h.suggestionService.AutocompleteAuthors(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (h *SurveyHandler) writeError(c *gin.Context, userID string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, service.ErrInvalidStep):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDraftIncomplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownReference):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": service.ErrUnknownReference.Error()})
	default:
		h.logger.Error("survey_request_failed", "user_id", userID, "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
