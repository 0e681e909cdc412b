package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/handler"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, userID string, req dto.SubmitBookRequest) (*models.Book, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockSubmissionService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionService) ListPending(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionService) Approve(ctx context.Context, moderatorID string, bookID int64, comment *string) (*models.Book, error) {
	args := m.Called(ctx, moderatorID, bookID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockSubmissionService) Reject(ctx context.Context, moderatorID string, bookID int64, comment *string) (*models.Book, error) {
	args := m.Called(ctx, moderatorID, bookID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

// mockAuthRole is mockAuth plus the role claim
func mockAuthRole(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func setupSubmissionRouter(svc *MockSubmissionService, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", mockAuthRole(testUserID, role))
	handler.NewSubmissionHandler(svc, nil).RegisterRoutes(api)
	return r
}

func TestSubmissionHandler_Submit(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := new(MockSubmissionService)
		svc.On("Submit", mock.Anything, testUserID, mock.MatchedBy(func(req dto.SubmitBookRequest) bool {
			return req.Title == "The Dispossessed" && req.Genre == "sci_fi" && len(req.AuthorIDs) == 1
		})).Return(&models.Book{ID: 9, Title: "The Dispossessed", Genre: "sci_fi", SubmittedBy: ptrString(testUserID)}, nil).Once()
		router := setupSubmissionRouter(svc, "user")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/books", jsonBody(t, gin.H{
			"title": "The Dispossessed", "genre": "sci_fi", "author_ids": []int64{1},
		}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.SubmissionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(9), resp.ID)
		assert.Equal(t, models.SubmissionPending, resp.Status)
	})

	t.Run("Missing Authors", func(t *testing.T) {
		svc := new(MockSubmissionService)
		router := setupSubmissionRouter(svc, "user")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/books", jsonBody(t, gin.H{"title": "X", "genre": "sci_fi", "author_ids": []int64{}}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bad Date", func(t *testing.T) {
		svc := new(MockSubmissionService)
		router := setupSubmissionRouter(svc, "user")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/books", jsonBody(t, gin.H{
			"title": "X", "genre": "sci_fi", "author_ids": []int64{1}, "published_date": "14/03/1974",
		}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Author", func(t *testing.T) {
		svc := new(MockSubmissionService)
		svc.On("Submit", mock.Anything, testUserID, mock.Anything).
			Return(nil, fmt.Errorf("%w: fk", service.ErrUnknownAuthor)).Once()
		router := setupSubmissionRouter(svc, "user")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/books", jsonBody(t, gin.H{"title": "X", "genre": "sci_fi", "author_ids": []int64{77}}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestSubmissionHandler_ListMine(t *testing.T) {
	svc := new(MockSubmissionService)
	reviewed := time.Now()
	comment := "duplicate"
	svc.On("ListMine", mock.Anything, testUserID, 1, 20).Return([]models.Book{
		{ID: 1, IsApproved: true, ReviewedAt: &reviewed},
		{ID: 2, ReviewedAt: &reviewed, ModerationComment: &comment},
		{ID: 3},
	}, int64(3), nil).Once()
	router := setupSubmissionRouter(svc, "user")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/submissions", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SubmissionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, models.SubmissionApproved, resp.Data[0].Status)
	assert.Equal(t, models.SubmissionRejected, resp.Data[1].Status)
	assert.Equal(t, "duplicate", *resp.Data[1].ModerationComment)
	assert.Equal(t, models.SubmissionPending, resp.Data[2].Status)
}

func TestSubmissionHandler_Moderation(t *testing.T) {
	t.Run("Reader Forbidden", func(t *testing.T) {
		svc := new(MockSubmissionService)
		router := setupSubmissionRouter(svc, "user")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/moderation/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "ListPending", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Queue", func(t *testing.T) {
		svc := new(MockSubmissionService)
		svc.On("ListPending", mock.Anything, 2, 10).Return([]models.Book{{ID: 4}}, int64(11), nil).Once()
		router := setupSubmissionRouter(svc, middleware.RoleModerator)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/moderation/books?page=2&page_size=10", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.SubmissionListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.Pagination.TotalPages)
	})

	t.Run("Approve Without Body", func(t *testing.T) {
		svc := new(MockSubmissionService)
		svc.On("Approve", mock.Anything, testUserID, int64(4), (*string)(nil)).
			Return(&models.Book{ID: 4, IsApproved: true}, nil).Once()
		router := setupSubmissionRouter(svc, middleware.RoleModerator)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/moderation/books/4/approve", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Reject Needs Comment", func(t *testing.T) {
		svc := new(MockSubmissionService)
		svc.On("Reject", mock.Anything, testUserID, int64(4), (*string)(nil)).
			Return(nil, &service.ValidationError{Field: "comment", Message: "a rejection needs a comment"}).Once()
		router := setupSubmissionRouter(svc, middleware.RoleModerator)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/moderation/books/4/reject", jsonBody(t, gin.H{}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "comment", resp["field"])
	})

	t.Run("Already Decided", func(t *testing.T) {
		svc := new(MockSubmissionService)
		svc.On("Approve", mock.Anything, testUserID, int64(5), (*string)(nil)).Return(nil, service.ErrSubmissionNotFound).Once()
		router := setupSubmissionRouter(svc, middleware.RoleModerator)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/moderation/books/5/approve", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func ptrString(s string) *string { return &s }
