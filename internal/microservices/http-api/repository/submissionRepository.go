package repository

import (
	"context"
	"fmt"
	"time"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// SubmissionRepository stores reader-submitted books and the moderation queue.
type SubmissionRepository interface {
	// Create inserts the book and its author links in one transaction. Unknown
	// author ids yield ErrForeignKey.
	Create(ctx context.Context, book *models.Book, authorIDs []int64) error
	ListBySubmitter(ctx context.Context, userID string, page, pageSize int) ([]models.Book, int64, error)
	ListPending(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	// Decide records a moderation outcome on a pending book and returns it.
	// gorm.ErrRecordNotFound means no pending book has that id.
	Decide(ctx context.Context, bookID int64, approve bool, comment *string, at time.Time) (*models.Book, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, book *models.Book, authorIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Authors").Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		if err := requireAll(tx, &models.Author{}, authorIDs); err != nil {
			return err
		}
		if len(authorIDs) > 0 {
			links := make([]models.BookAuthor, 0, len(authorIDs))
			for _, id := range authorIDs {
				links = append(links, models.BookAuthor{BookID: book.ID, AuthorID: id})
			}
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("link authors: %w", err)
			}
		}
		return tx.Preload("Authors").First(book, book.ID).Error
	})
	return mapConstraintError(err)
}

// ListBySubmitter returns the user's submissions in every state, newest first.
func (r *submissionRepository) ListBySubmitter(ctx context.Context, userID string, page, pageSize int) ([]models.Book, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Book{}).Where("submitted_by = ?", userID)
	return paginateBooks(q, "created_at desc, id desc", page, pageSize)
}

// ListPending returns unreviewed books, oldest first.
func (r *submissionRepository) ListPending(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	return paginateBooks(r.pendingQuery(ctx), "created_at asc, id asc", page, pageSize)
}

func (r *submissionRepository) Decide(ctx context.Context, bookID int64, approve bool, comment *string, at time.Time) (*models.Book, error) {
	result := r.pendingQuery(ctx).
		Where("id = ?", bookID).
		Updates(map[string]any{
			"is_approved":        approve,
			"moderation_comment": comment,
			"reviewed_at":        at,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("moderate book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Authors").First(&b, bookID).Error; err != nil {
		return nil, fmt.Errorf("reload book: %w", err)
	}
	return &b, nil
}

func (r *submissionRepository) pendingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Book{}).
		Where("is_approved = ? AND reviewed_at IS NULL", false)
}

func paginateBooks(q *gorm.DB, order string, page, pageSize int) ([]models.Book, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	var list []models.Book
	if err := q.Session(&gorm.Session{}).
		Preload("Authors").
		Order(order).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	return list, total, nil
}
