package service

import (
	"context"
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/recommender"

	"github.com/stretchr/testify/mock"
)

const testUserID = "7d5f0c1e-2a4b-4f3e-9a51-0c8e6b2d4f10"

// MockDraftStore mocks repository.SurveyDraftStore
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Get(ctx context.Context, userID string) (*models.SurveyDraft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SurveyDraft), args.Error(1)
}

func (m *MockDraftStore) Save(ctx context.Context, draft *models.SurveyDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftStore) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockSurveyStore mocks SurveyStore
type MockSurveyStore struct {
	mock.Mock
}

func (m *MockSurveyStore) SaveSurvey(ctx context.Context, rec *repository.SurveyRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockRecommender mocks the recommendation engine
type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, userID string, limit int, strategy recommender.Strategy) ([]recommender.Recommendation, error) {
	args := m.Called(ctx, userID, limit, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommender.Recommendation), args.Error(1)
}

// MockBookSearcher mocks BookSearcher
type MockBookSearcher struct {
	mock.Mock
}

func (m *MockBookSearcher) SeedBooks(ctx context.Context, f repository.SeedFilter, limit int) ([]models.Book, error) {
	args := m.Called(ctx, f, limit)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookSearcher) SearchSeedBooks(ctx context.Context, f repository.SeedFilter, query string, limit int) ([]models.Book, error) {
	args := m.Called(ctx, f, query, limit)
	return args.Get(0).([]models.Book), args.Error(1)
}

// MockAuthorSearcher mocks AuthorSearcher
type MockAuthorSearcher struct {
	mock.Mock
}

func (m *MockAuthorSearcher) SearchByName(ctx context.Context, query string, limit int) ([]models.Author, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]models.Author), args.Error(1)
}

// MockWeightsSource mocks WeightsSource
type MockWeightsSource struct {
	mock.Mock
}

func (m *MockWeightsSource) GenreWeights(ctx context.Context, userID string) (recommender.GenreWeights, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(recommender.GenreWeights), args.Error(1)
}

// MockBookReader mocks BookReader
type MockBookReader struct {
	mock.Mock
}

func (m *MockBookReader) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookReader) List(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

// MockLibraryRepo mocks repository.LibraryRepository
type MockLibraryRepo struct {
	mock.Mock
}

func (m *MockLibraryRepo) Upsert(ctx context.Context, rel *models.UserBookRelation) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}

func (m *MockLibraryRepo) Remove(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockLibraryRepo) List(ctx context.Context, userID, listType string) ([]models.UserBookRelation, error) {
	args := m.Called(ctx, userID, listType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserBookRelation), args.Error(1)
}

// MockReviewRepo mocks repository.ReviewRepository
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Upsert(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) Delete(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockReviewRepo) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Review, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepo) ListByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, bookID, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepo) Summary(ctx context.Context, bookID int64) (repository.ReviewSummary, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(repository.ReviewSummary), args.Error(1)
}

// MockSubmissionRepo mocks repository.SubmissionRepository
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(ctx context.Context, book *models.Book, authorIDs []int64) error {
	args := m.Called(ctx, book, authorIDs)
	return args.Error(0)
}

func (m *MockSubmissionRepo) ListBySubmitter(ctx context.Context, userID string, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepo) ListPending(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepo) Decide(ctx context.Context, bookID int64, approve bool, comment *string, at time.Time) (*models.Book, error) {
	args := m.Called(ctx, bookID, approve, comment, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

// MockQuoteRepo mocks repository.QuoteRepository
type MockQuoteRepo struct {
	mock.Mock
}

func (m *MockQuoteRepo) Create(ctx context.Context, q *models.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepo) Update(ctx context.Context, userID string, quoteID int64, ch repository.QuoteChanges) error {
	args := m.Called(ctx, userID, quoteID, ch)
	return args.Error(0)
}

func (m *MockQuoteRepo) Delete(ctx context.Context, userID string, quoteID int64) error {
	args := m.Called(ctx, userID, quoteID)
	return args.Error(0)
}

func (m *MockQuoteRepo) GetVisible(ctx context.Context, viewerID string, quoteID int64) (*repository.QuoteView, error) {
	args := m.Called(ctx, viewerID, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.QuoteView), args.Error(1)
}

func (m *MockQuoteRepo) ListForBook(ctx context.Context, viewerID string, bookID int64, page, pageSize int) ([]repository.QuoteView, int64, error) {
	args := m.Called(ctx, viewerID, bookID, page, pageSize)
	return args.Get(0).([]repository.QuoteView), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepo) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]repository.QuoteView, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]repository.QuoteView), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepo) Like(ctx context.Context, userID string, quoteID int64) error {
	args := m.Called(ctx, userID, quoteID)
	return args.Error(0)
}

func (m *MockQuoteRepo) Unlike(ctx context.Context, userID string, quoteID int64) error {
	args := m.Called(ctx, userID, quoteID)
	return args.Error(0)
}

// MockCollectionRepo mocks repository.CollectionRepository
type MockCollectionRepo struct {
	mock.Mock
}

func (m *MockCollectionRepo) Create(ctx context.Context, c *models.GlobalCollection, bookIDs []int64) error {
	args := m.Called(ctx, c, bookIDs)
	return args.Error(0)
}

func (m *MockCollectionRepo) ListActive(ctx context.Context) ([]repository.CollectionSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.CollectionSummary), args.Error(1)
}

func (m *MockCollectionRepo) GetActiveBySlug(ctx context.Context, slug string) (*models.GlobalCollection, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlobalCollection), args.Error(1)
}

func (m *MockCollectionRepo) SetBooks(ctx context.Context, slug string, bookIDs []int64) error {
	args := m.Called(ctx, slug, bookIDs)
	return args.Error(0)
}

func (m *MockCollectionRepo) Deactivate(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}
