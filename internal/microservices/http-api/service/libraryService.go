package service

import (
	"context"
	"errors"
	"strings"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrNotInLibrary    = errors.New("book not in library")
	ErrInvalidListType = errors.New("unknown list type")
)

type LibraryService interface {
	// Add puts the book on a shelf. A book already shelved is moved.
	Add(ctx context.Context, userID string, req dto.AddToLibraryRequest) (*models.UserBookRelation, error)
	Remove(ctx context.Context, userID string, bookID int64) error
	List(ctx context.Context, userID, listType string) ([]models.UserBookRelation, error)
}

type libraryService struct {
	repo  repository.LibraryRepository
	books BookGetter
}

func NewLibraryService(repo repository.LibraryRepository, books BookGetter) LibraryService {
	return &libraryService{
		repo:  repo,
		books: books,
	}
}

func (s *libraryService) Add(ctx context.Context, userID string, req dto.AddToLibraryRequest) (*models.UserBookRelation, error) {
	listType := strings.TrimSpace(req.ListType)
	if !models.ValidListType(listType) {
		return nil, ErrInvalidListType
	}

	if _, err := s.books.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	rel := &models.UserBookRelation{
		UserID:   userID,
		BookID:   req.BookID,
		ListType: listType,
		Liked:    req.Liked,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.repo.Upsert(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

func (s *libraryService) Remove(ctx context.Context, userID string, bookID int64) error {
	if err := s.repo.Remove(ctx, userID, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInLibrary
		}
		return err
	}
	return nil
}

func (s *libraryService) List(ctx context.Context, userID, listType string) ([]models.UserBookRelation, error) {
	if listType != "" && !models.ValidListType(listType) {
		return nil, ErrInvalidListType
	}
	return s.repo.List(ctx, userID, listType)
}
