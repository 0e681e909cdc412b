package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookhub/internal/microservices/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique key such as a collection slug is taken.
var ErrDuplicate = errors.New("record already exists")

// postgres SQLSTATE unique_violation
const pgUniqueViolation = "23505"

// CollectionSummary is an active collection with the number of approved books on it.
type CollectionSummary struct {
	ID          int64
	Title       string
	Slug        string
	Description *string
	CreatedAt   time.Time
	BookCount   int64
}

type CollectionRepository interface {
	// Create inserts the collection and links bookIDs. A taken slug yields ErrDuplicate,
	// an unknown book id ErrForeignKey.
	Create(ctx context.Context, c *models.GlobalCollection, bookIDs []int64) error
	ListActive(ctx context.Context) ([]CollectionSummary, error)
	// GetActiveBySlug preloads the approved books with their authors.
	GetActiveBySlug(ctx context.Context, slug string) (*models.GlobalCollection, error)
	SetBooks(ctx context.Context, slug string, bookIDs []int64) error
	Deactivate(ctx context.Context, slug string) error
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, c *models.GlobalCollection, bookIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Books").Create(c).Error; err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		return linkCollectionBooks(tx, c.ID, bookIDs)
	})
	return mapConstraintError(err)
}

func (r *collectionRepository) ListActive(ctx context.Context) ([]CollectionSummary, error) {
	var rows []CollectionSummary
	if err := r.db.WithContext(ctx).Table("global_collections AS gc").
		Select(`gc.id, gc.title, gc.slug, gc.description, gc.created_at, (SELECT COUNT(*) FROM collection_books cb
			JOIN books b ON b.id = cb.book_id AND b.is_approved
			WHERE cb.global_collection_id = gc.id) AS book_count`).
		Where("gc.is_active = ?", true).
		Order("gc.created_at desc, gc.id desc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return rows, nil
}

func (r *collectionRepository) GetActiveBySlug(ctx context.Context, slug string) (*models.GlobalCollection, error) {
	var c models.GlobalCollection
	if err := r.db.WithContext(ctx).
		Preload("Books", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_approved = ?", true).Order("world_rating desc nulls last, id asc")
		}).
		Preload("Books.Authors").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// SetBooks replaces the books of an active collection.
func (r *collectionRepository) SetBooks(ctx context.Context, slug string, bookIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.GlobalCollection
		if err := tx.Where("slug = ? AND is_active = ?", slug, true).First(&c).Error; err != nil {
			return err
		}
		if err := tx.Where("global_collection_id = ?", c.ID).Delete(&models.CollectionBook{}).Error; err != nil {
			return fmt.Errorf("clear collection books: %w", err)
		}
		return linkCollectionBooks(tx, c.ID, bookIDs)
	})
	return mapConstraintError(err)
}

// Deactivate hides the collection; its book links are kept.
func (r *collectionRepository) Deactivate(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Model(&models.GlobalCollection{}).
		Where("slug = ? AND is_active = ?", slug, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate collection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func linkCollectionBooks(tx *gorm.DB, collectionID int64, bookIDs []int64) error {
	if len(bookIDs) == 0 {
		return nil
	}
	links := make([]models.CollectionBook, 0, len(bookIDs))
	seen := make(map[int64]struct{}, len(bookIDs))
	ids := make([]int64, 0, len(bookIDs))
	for _, id := range bookIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		links = append(links, models.CollectionBook{GlobalCollectionID: collectionID, BookID: id})
	}
	if err := requireAll(tx, &models.Book{}, ids); err != nil {
		return err
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("link collection books: %w", err)
	}
	return nil
}

// requireAll returns ErrForeignKey unless every id exists in model's table. ids must be distinct.
func requireAll(tx *gorm.DB, model any, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return fmt.Errorf("check references: %w", err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("%w: %d of %d ids unknown", ErrForeignKey, int64(len(ids))-n, len(ids))
	}
	return nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		}
	}
	return err
}
