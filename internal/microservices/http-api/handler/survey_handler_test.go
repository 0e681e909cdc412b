package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/handler"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/recommender"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- MOCK SERVICES ---

type MockSurveyService struct {
	mock.Mock
}

func (m *MockSurveyService) GetDraft(ctx context.Context, userID string) (*models.SurveyDraft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SurveyDraft), args.Error(1)
}

func (m *MockSurveyService) SaveStep(ctx context.Context, userID, step string, req dto.SurveyStepRequest) (*models.SurveyDraft, error) {
	args := m.Called(ctx, userID, step, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SurveyDraft), args.Error(1)
}

func (m *MockSurveyService) Complete(ctx context.Context, userID string) ([]recommender.Recommendation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommender.Recommendation), args.Error(1)
}

func (m *MockSurveyService) Submit(ctx context.Context, userID string, req dto.SurveySubmission) ([]recommender.Recommendation, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommender.Recommendation), args.Error(1)
}

func (m *MockSurveyService) Discard(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) SeedBooks(ctx context.Context, userID string, limit int) ([]dto.BookSuggestion, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]dto.BookSuggestion), args.Error(1)
}

func (m *MockSuggestionService) AutocompleteBooks(ctx context.Context, userID, query string) ([]dto.BookSuggestion, error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).([]dto.BookSuggestion), args.Error(1)
}

func (m *MockSuggestionService) AutocompleteAuthors(ctx context.Context, query string) ([]dto.AuthorSuggestion, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]dto.AuthorSuggestion), args.Error(1)
}

// --- SETUP ---

func setupSurveyRouter(survey *MockSurveyService, suggestions *MockSuggestionService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(mockAuth(userID))
	handler.NewSurveyHandler(survey, suggestions, nil).RegisterRoutes(api)
	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

// --- TESTS ---

func TestSurveyHandler_SaveStep(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)

		req := dto.SurveyStepRequest{PreferredGenres: []string{"fantasy", "detective"}}
		draft := &models.SurveyDraft{
			UserID:          testUserID,
			PreferredGenres: []string{"fantasy", "detective"},
			CompletedSteps:  []string{models.StepGenres},
		}
		svc.On("SaveStep", mock.Anything, testUserID, "genres", req).Return(draft, nil).Once()

		httpReq := httptest.NewRequest(http.MethodPut, "/api/survey/steps/genres", jsonBody(t, req))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.SurveyDraftResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"banned", "goal", "frequency", "authors"}, resp.MissingSteps)
		svc.AssertExpectations(t)
	})

	t.Run("Validation Error", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
		svc.On("SaveStep", mock.Anything, testUserID, "banned", mock.Anything).
			Return(nil, &service.ValidationError{Field: "banned_genres", Message: `genre "fantasy" is also preferred`}).Once()

		httpReq := httptest.NewRequest(http.MethodPut, "/api/survey/steps/banned", jsonBody(t, dto.SurveyStepRequest{BannedGenres: []string{"fantasy"}}))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "banned_genres", resp["field"])
	})

	t.Run("Unknown Step", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
		svc.On("SaveStep", mock.Anything, testUserID, "horoscope", mock.Anything).
			Return(nil, fmt.Errorf("%w: %q", service.ErrInvalidStep, "horoscope")).Once()

		httpReq := httptest.NewRequest(http.MethodPut, "/api/survey/steps/horoscope", bytes.NewBufferString(`{}`))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)

		httpReq := httptest.NewRequest(http.MethodPut, "/api/survey/steps/genres", bytes.NewBufferString(`{"preferred_genres": "fantasy"`))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "SaveStep", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSurveyHandler_GetDraft(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
		svc.On("GetDraft", mock.Anything, testUserID).Return(nil, service.ErrDraftNotFound).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/draft", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), "")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/draft", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSurveyHandler_DiscardDraft(t *testing.T) {
	svc := new(MockSurveyService)
	r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
	svc.On("Discard", mock.Anything, testUserID).Return(nil).Once()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/survey/draft", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSurveyHandler_Complete(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"Incomplete", fmt.Errorf("%w: missing goal", service.ErrDraftIncomplete), http.StatusConflict},
		{"No Draft", service.ErrDraftNotFound, http.StatusNotFound},
		{"Unknown Reference", fmt.Errorf("%w: fk_survey_favorite_books_book", service.ErrUnknownReference), http.StatusUnprocessableEntity},
		{"Store Down", errors.New("dial tcp: refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSurveyService)
			r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
			svc.On("Complete", mock.Anything, testUserID).Return(nil, tt.err).Once()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/survey/complete", nil))

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}

	t.Run("Success", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
		svc.On("Complete", mock.Anything, testUserID).
			Return([]recommender.Recommendation{{ID: 3, Title: "Ash and Ember"}}, nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/survey/complete", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.SurveyCompleteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Recommendations, 1)
		assert.Equal(t, "Ash and Ember", resp.Recommendations[0].Title)
		assert.False(t, resp.CompletedAt.IsZero())
	})
}

func TestSurveyHandler_Submit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
		body := dto.SurveySubmission{
			PreferredGenres:  []string{"fantasy"},
			BannedGenres:     []string{"thriller_horror"},
			ReadingGoal:      "Read more classics",
			ReadingFrequency: 3,
			FavoriteAuthors:  []int64{1},
		}
		svc.On("Submit", mock.Anything, testUserID, body).Return([]recommender.Recommendation{}, nil).Once()

		httpReq := httptest.NewRequest(http.MethodPost, "/api/survey", jsonBody(t, body))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Without Banned Genres", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)
		svc.On("Submit", mock.Anything, testUserID, mock.MatchedBy(func(req dto.SurveySubmission) bool {
			return len(req.BannedGenres) == 0
		})).Return([]recommender.Recommendation{}, nil).Once()

		httpReq := httptest.NewRequest(http.MethodPost, "/api/survey", bytes.NewBufferString(
			`{"preferred_genres":["fantasy"],"reading_goal":"x","reading_frequency":2,"favorite_authors":[1]}`))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Missing Frequency", func(t *testing.T) {
		svc := new(MockSurveyService)
		r := setupSurveyRouter(svc, new(MockSuggestionService), testUserID)

		httpReq := httptest.NewRequest(http.MethodPost, "/api/survey", bytes.NewBufferString(
			`{"preferred_genres":["fantasy"],"banned_genres":["thriller_horror"],"reading_goal":"x","favorite_authors":[1]}`))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSurveyHandler_Suggestions(t *testing.T) {
	t.Run("Book Autocomplete", func(t *testing.T) {
		sugg := new(MockSuggestionService)
		r := setupSurveyRouter(new(MockSurveyService), sugg, testUserID)
		sugg.On("AutocompleteBooks", mock.Anything, testUserID, "hob").
			Return([]dto.BookSuggestion{{ID: 9, Title: "The Hobbit", Genre: "fantasy"}}, nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/suggestions/books?q=hob", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp []dto.BookSuggestion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, int64(9), resp[0].ID)
	})

	t.Run("Seed Books Without Query", func(t *testing.T) {
		sugg := new(MockSuggestionService)
		r := setupSurveyRouter(new(MockSurveyService), sugg, testUserID)
		sugg.On("SeedBooks", mock.Anything, testUserID, 50).Return([]dto.BookSuggestion{}, nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/suggestions/books?limit=1000", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
		sugg.AssertExpectations(t)
	})

	t.Run("Author Autocomplete", func(t *testing.T) {
		sugg := new(MockSuggestionService)
		r := setupSurveyRouter(new(MockSurveyService), sugg, testUserID)
		sugg.On("AutocompleteAuthors", mock.Anything, "tolk").
			Return([]dto.AuthorSuggestion{{ID: 1, Name: "J. R. R. Tolkien"}}, nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/survey/suggestions/authors?q=tolk", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Tolkien")
	})
}
