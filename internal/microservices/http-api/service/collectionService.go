package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrSlugTaken          = errors.New("collection slug already in use")
	ErrUnknownBook        = errors.New("collection references an unknown book")
)

const maxSlugLen = 255

type CollectionService interface {
	ListActive(ctx context.Context) ([]repository.CollectionSummary, error)
	GetBySlug(ctx context.Context, slug string) (*models.GlobalCollection, error)
	Create(ctx context.Context, moderatorID string, req dto.CreateCollectionRequest) (*models.GlobalCollection, error)
	SetBooks(ctx context.Context, moderatorID, slug string, bookIDs []int64) (*models.GlobalCollection, error)
	Deactivate(ctx context.Context, moderatorID, slug string) error
}

type collectionService struct {
	repo   repository.CollectionRepository
	logger *slog.Logger
}

func NewCollectionService(repo repository.CollectionRepository, logger *slog.Logger) CollectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &collectionService{
		repo:   repo,
		logger: logger,
	}
}

func (s *collectionService) ListActive(ctx context.Context) ([]repository.CollectionSummary, error) {
	return s.repo.ListActive(ctx)
}

func (s *collectionService) GetBySlug(ctx context.Context, slug string) (*models.GlobalCollection, error) {
	c, err := s.repo.GetActiveBySlug(ctx, slug)
	if err != nil {
		return nil, s.mapError(err)
	}
	return c, nil
}

func (s *collectionService) Create(ctx context.Context, moderatorID string, req dto.CreateCollectionRequest) (*models.GlobalCollection, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "title must not be blank")
	}
	source := req.Slug
	if strings.TrimSpace(source) == "" {
		source = title
	}
	slug := Slugify(source)
	if slug == "" {
		return nil, invalid("slug", "cannot derive a slug, provide one using latin letters or digits")
	}

	c := &models.GlobalCollection{
		Title:       title,
		Slug:        slug,
		Description: trimmedOrNil(req.Description),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, c, req.BookIDs); err != nil {
		return nil, s.mapError(err)
	}
	s.logger.Info("collection_created", "moderator_id", moderatorID, "slug", slug, "books", len(req.BookIDs))
	return s.GetBySlug(ctx, slug)
}

func (s *collectionService) SetBooks(ctx context.Context, moderatorID, slug string, bookIDs []int64) (*models.GlobalCollection, error) {
	if err := s.repo.SetBooks(ctx, slug, bookIDs); err != nil {
		return nil, s.mapError(err)
	}
	s.logger.Info("collection_books_set", "moderator_id", moderatorID, "slug", slug, "books", len(bookIDs))
	return s.GetBySlug(ctx, slug)
}

func (s *collectionService) Deactivate(ctx context.Context, moderatorID, slug string) error {
	if err := s.repo.Deactivate(ctx, slug); err != nil {
		return s.mapError(err)
	}
	s.logger.Info("collection_deactivated", "moderator_id", moderatorID, "slug", slug)
	return nil
}

func (s *collectionService) mapError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrCollectionNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrSlugTaken
	case errors.Is(err, repository.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrUnknownBook, err)
	default:
		return err
	}
}

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, folds accented latin letters to ASCII and joins the remaining
// letter and digit runs with '-'. Other scripts are dropped, so the result may be empty.
func Slugify(s string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, norm.NFKD.String(s))

	out := strings.Trim(slugSeparators.ReplaceAllString(strings.ToLower(ascii), "-"), "-")
	if len(out) > maxSlugLen {
		out = strings.TrimRight(out[:maxSlugLen], "-")
	}
	return out
}
