package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/recommender"

	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("no pending submission with that id")
	ErrUnknownAuthor      = errors.New("submission references an unknown author")
)

const (
	defaultSubmissionPageSize = 20
	maxSubmissionPageSize     = 100
)

// SubmissionService lets readers propose books and moderators work the approval queue.
// A submitted book is invisible to the catalog and the recommender until approved.
type SubmissionService interface {
	Submit(ctx context.Context, userID string, req dto.SubmitBookRequest) (*models.Book, error)
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]models.Book, int64, error)
	ListPending(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	Approve(ctx context.Context, moderatorID string, bookID int64, comment *string) (*models.Book, error)
	// Reject requires a non-empty comment explaining the decision to the submitter.
	Reject(ctx context.Context, moderatorID string, bookID int64, comment *string) (*models.Book, error)
}

type submissionService struct {
	repo    repository.SubmissionRepository
	logger  *slog.Logger
	nowFunc func() time.Time
}

func NewSubmissionService(repo repository.SubmissionRepository, logger *slog.Logger) SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &submissionService{
		repo:    repo,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, userID string, req dto.SubmitBookRequest) (*models.Book, error) {
	title := strings.Join(strings.Fields(req.Title), " ")
	if title == "" {
		return nil, invalid("title", "title must not be blank")
	}
	genre, ok := recommender.ParseGenre(req.Genre)
	if !ok {
		return nil, ErrInvalidGenre
	}

	book := &models.Book{
		Title:       title,
		Genre:       string(genre),
		Description: req.Description,
		IsApproved:  false,
		SubmittedBy: &userID,
	}
	if req.PublishedDate != nil {
		d, err := time.Parse(time.DateOnly, *req.PublishedDate)
		if err != nil {
			return nil, invalid("published_date", "expected YYYY-MM-DD")
		}
		book.PublishedDate = &d
	}

	if err := s.repo.Create(ctx, book, uniqueIDs(req.AuthorIDs)); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownAuthor, err)
		}
		return nil, err
	}
	s.logger.Info("book_submitted", "user_id", userID, "book_id", book.ID)
	return book, nil
}

func (s *submissionService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]models.Book, int64, error) {
	page, pageSize = clampPage(page, pageSize, defaultSubmissionPageSize, maxSubmissionPageSize)
	return s.repo.ListBySubmitter(ctx, userID, page, pageSize)
}

func (s *submissionService) ListPending(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	page, pageSize = clampPage(page, pageSize, defaultSubmissionPageSize, maxSubmissionPageSize)
	return s.repo.ListPending(ctx, page, pageSize)
}

func (s *submissionService) Approve(ctx context.Context, moderatorID string, bookID int64, comment *string) (*models.Book, error) {
	return s.decide(ctx, moderatorID, bookID, true, trimmedOrNil(comment))
}

func (s *submissionService) Reject(ctx context.Context, moderatorID string, bookID int64, comment *string) (*models.Book, error) {
	comment = trimmedOrNil(comment)
	if comment == nil {
		return nil, invalid("comment", "a rejection needs a comment")
	}
	return s.decide(ctx, moderatorID, bookID, false, comment)
}

func (s *submissionService) decide(ctx context.Context, moderatorID string, bookID int64, approve bool, comment *string) (*models.Book, error) {
	book, err := s.repo.Decide(ctx, bookID, approve, comment, s.nowFunc().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	s.logger.Info("book_moderated",
		"moderator_id", moderatorID,
		"book_id", bookID,
		"status", book.SubmissionStatus(),
	)
	return book, nil
}

func clampPage(page, pageSize, def, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxSize {
		pageSize = def
	}
	return page, pageSize
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
