package repository

import (
	"context"
	"fmt"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LibraryRepository writes the user's shelves. RelationRepo reads the same rows as reading history.
type LibraryRepository interface {
	Upsert(ctx context.Context, rel *models.UserBookRelation) error
	Remove(ctx context.Context, userID string, bookID int64) error
	List(ctx context.Context, userID, listType string) ([]models.UserBookRelation, error)
}

type libraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

// Upsert moves the book to rel.ListType, keeping one relation per user and book.
// rel is refreshed from the stored row, so AddedAt keeps the first shelving time.
func (r *libraryRepository) Upsert(ctx context.Context, rel *models.UserBookRelation) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"list_type", "liked", "rating", "comment"}),
	}, clause.Returning{}).Create(rel).Error; err != nil {
		return fmt.Errorf("save to library: %w", err)
	}
	return nil
}

// Remove returns gorm.ErrRecordNotFound when the book is not on any shelf.
func (r *libraryRepository) Remove(ctx context.Context, userID string, bookID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.UserBookRelation{})

	if result.Error != nil {
		return fmt.Errorf("remove from library: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns the user's relations, newest first. An empty listType lists every shelf.
func (r *libraryRepository) List(ctx context.Context, userID, listType string) ([]models.UserBookRelation, error) {
	var library []models.UserBookRelation

	tx := r.db.WithContext(ctx).
		Preload("Book.Authors").
		Where("user_id = ?", userID)
	if listType != "" {
		tx = tx.Where("list_type = ?", listType)
	}
	if err := tx.Order("added_at DESC, id DESC").Find(&library).Error; err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	return library, nil
}
