package service

import (
	"context"
	"errors"
	"log/slog"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

const (
	defaultReviewPageSize = 20
	maxReviewPageSize     = 100
)

// ReviewService manages book reviews. Reviews feed the similar-books pool of the recommender,
// world_rating stays as imported.
type ReviewService interface {
	Upsert(ctx context.Context, userID string, bookID int64, rating int, comment *string) (*models.Review, error)
	Delete(ctx context.Context, userID string, bookID int64) error
	GetUserReview(ctx context.Context, userID string, bookID int64) (*models.Review, error)
	ListBookReviews(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error)
	Summary(ctx context.Context, bookID int64) (repository.ReviewSummary, error)
}

type reviewService struct {
	repo   repository.ReviewRepository
	books  BookGetter
	logger *slog.Logger
}

func NewReviewService(repo repository.ReviewRepository, books BookGetter, logger *slog.Logger) ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewService{
		repo:   repo,
		books:  books,
		logger: logger,
	}
}

func (s *reviewService) Upsert(ctx context.Context, userID string, bookID int64, rating int, comment *string) (*models.Review, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	review := &models.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.repo.Upsert(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Debug("review_saved", "user_id", userID, "book_id", bookID, "rating", rating)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, userID string, bookID int64) error {
	if err := s.repo.Delete(ctx, userID, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) GetUserReview(ctx context.Context, userID string, bookID int64) (*models.Review, error) {
	review, err := s.repo.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListBookReviews(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxReviewPageSize {
		pageSize = defaultReviewPageSize
	}
	return s.repo.ListByBook(ctx, bookID, page, pageSize)
}

func (s *reviewService) Summary(ctx context.Context, bookID int64) (repository.ReviewSummary, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return repository.ReviewSummary{}, err
	}
	return s.repo.Summary(ctx, bookID)
}

func (s *reviewService) ensureBook(ctx context.Context, bookID int64) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}
