package service

import (
	"context"
	"errors"
	"strings"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/recommender"

	"gorm.io/gorm"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrInvalidGenre = errors.New("unknown genre")
)

type BookService interface {
	List(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
}

// BookGetter loads a single approved book.
type BookGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
}

// BookReader is satisfied by *repository.BookRepo.
type BookReader interface {
	BookGetter
	List(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error)
}

type bookService struct {
	repo BookReader
}

func NewBookService(r BookReader) BookService {
	return &bookService{repo: r}
}

func (s *bookService) List(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error) {
	if f.Genre != "" {
		g, ok := recommender.ParseGenre(string(f.Genre))
		if !ok {
			return nil, 0, ErrInvalidGenre
		}
		f.Genre = g
	}
	f.Query = strings.TrimSpace(f.Query)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	return s.repo.List(ctx, f)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}
