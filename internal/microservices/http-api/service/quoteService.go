package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var ErrQuoteNotFound = errors.New("quote not found")

const (
	defaultQuotePageSize = 20
	maxQuotePageSize     = 100
)

// QuoteService manages reader quotes. Callers only ever see public quotes and their own;
// a quote hidden from the caller is reported as not found.
type QuoteService interface {
	Create(ctx context.Context, userID string, bookID int64, req dto.CreateQuoteRequest) (*repository.QuoteView, error)
	Update(ctx context.Context, userID string, quoteID int64, req dto.UpdateQuoteRequest) (*repository.QuoteView, error)
	Delete(ctx context.Context, userID string, quoteID int64) error
	ListForBook(ctx context.Context, userID string, bookID int64, page, pageSize int) ([]repository.QuoteView, int64, error)
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]repository.QuoteView, int64, error)
	Like(ctx context.Context, userID string, quoteID int64) (*repository.QuoteView, error)
	Unlike(ctx context.Context, userID string, quoteID int64) (*repository.QuoteView, error)
}

type quoteService struct {
	repo   repository.QuoteRepository
	books  BookGetter
	logger *slog.Logger
}

func NewQuoteService(repo repository.QuoteRepository, books BookGetter, logger *slog.Logger) QuoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &quoteService{
		repo:   repo,
		books:  books,
		logger: logger,
	}
}

func (s *quoteService) Create(ctx context.Context, userID string, bookID int64, req dto.CreateQuoteRequest) (*repository.QuoteView, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, invalid("text", "quote text must not be blank")
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	q := &models.Quote{
		BookID:   bookID,
		UserID:   userID,
		Text:     text,
		Page:     req.Page,
		Chapter:  trimmedOrNil(req.Chapter),
		IsPublic: true,
	}
	if req.IsPublic != nil {
		q.IsPublic = *req.IsPublic
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Debug("quote_created", "user_id", userID, "book_id", bookID, "quote_id", q.ID)
	return &repository.QuoteView{Quote: *q}, nil
}

func (s *quoteService) Update(ctx context.Context, userID string, quoteID int64, req dto.UpdateQuoteRequest) (*repository.QuoteView, error) {
	ch := repository.QuoteChanges{
		Page:     req.Page,
		Chapter:  req.Chapter,
		IsPublic: req.IsPublic,
	}
	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, invalid("text", "quote text must not be blank")
		}
		ch.Text = &text
	}
	if err := s.repo.Update(ctx, userID, quoteID, ch); err != nil {
		return nil, s.mapNotFound(err)
	}
	return s.get(ctx, userID, quoteID)
}

func (s *quoteService) Delete(ctx context.Context, userID string, quoteID int64) error {
	return s.mapNotFound(s.repo.Delete(ctx, userID, quoteID))
}

func (s *quoteService) ListForBook(ctx context.Context, userID string, bookID int64, page, pageSize int) ([]repository.QuoteView, int64, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrBookNotFound
		}
		return nil, 0, err
	}
	page, pageSize = clampPage(page, pageSize, defaultQuotePageSize, maxQuotePageSize)
	return s.repo.ListForBook(ctx, userID, bookID, page, pageSize)
}

func (s *quoteService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]repository.QuoteView, int64, error) {
	page, pageSize = clampPage(page, pageSize, defaultQuotePageSize, maxQuotePageSize)
	return s.repo.ListByUser(ctx, userID, page, pageSize)
}

func (s *quoteService) Like(ctx context.Context, userID string, quoteID int64) (*repository.QuoteView, error) {
	if _, err := s.get(ctx, userID, quoteID); err != nil {
		return nil, err
	}
	if err := s.repo.Like(ctx, userID, quoteID); err != nil {
		return nil, err
	}
	return s.get(ctx, userID, quoteID)
}

func (s *quoteService) Unlike(ctx context.Context, userID string, quoteID int64) (*repository.QuoteView, error) {
	if _, err := s.get(ctx, userID, quoteID); err != nil {
		return nil, err
	}
	if err := s.repo.Unlike(ctx, userID, quoteID); err != nil {
		return nil, err
	}
	return s.get(ctx, userID, quoteID)
}

func (s *quoteService) get(ctx context.Context, userID string, quoteID int64) (*repository.QuoteView, error) {
	q, err := s.repo.GetVisible(ctx, userID, quoteID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return q, nil
}

func (s *quoteService) mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQuoteNotFound
	}
	return err
}
