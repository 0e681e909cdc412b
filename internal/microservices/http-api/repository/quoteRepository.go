package repository

import (
	"context"
	"fmt"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteView is a quote with its like counters as seen by one viewer.
type QuoteView struct {
	models.Quote `gorm:"embedded"`
	LikesCount   int64 `json:"likes_count"`
	LikedByMe    bool  `json:"liked_by_me"`
}

// QuoteChanges are the owner-editable fields; nil leaves a field unchanged.
type QuoteChanges struct {
	Text     *string
	Page     *int
	Chapter  *string
	IsPublic *bool
}

type QuoteRepository interface {
	Create(ctx context.Context, q *models.Quote) error
	// Update and Delete return gorm.ErrRecordNotFound unless userID owns the quote.
	Update(ctx context.Context, userID string, quoteID int64, ch QuoteChanges) error
	Delete(ctx context.Context, userID string, quoteID int64) error
	// GetVisible returns a quote that is public or owned by viewerID.
	GetVisible(ctx context.Context, viewerID string, quoteID int64) (*QuoteView, error)
	ListForBook(ctx context.Context, viewerID string, bookID int64, page, pageSize int) ([]QuoteView, int64, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]QuoteView, int64, error)
	// Like is idempotent; Unlike of a quote that was never liked is a no-op.
	Like(ctx context.Context, userID string, quoteID int64) error
	Unlike(ctx context.Context, userID string, quoteID int64) error
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, q *models.Quote) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

func (r *quoteRepository) Update(ctx context.Context, userID string, quoteID int64, ch QuoteChanges) error {
	updates := map[string]any{}
	if ch.Text != nil {
		updates["text"] = *ch.Text
	}
	if ch.Page != nil {
		updates["page"] = *ch.Page
	}
	if ch.Chapter != nil {
		updates["chapter"] = *ch.Chapter
	}
	if ch.IsPublic != nil {
		updates["is_public"] = *ch.IsPublic
	}

	owned := r.db.WithContext(ctx).Model(&models.Quote{}).Where("id = ? AND user_id = ?", quoteID, userID)
	if len(updates) == 0 {
		var n int64
		if err := owned.Count(&n).Error; err != nil {
			return fmt.Errorf("find quote: %w", err)
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	result := owned.Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update quote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quoteRepository) Delete(ctx context.Context, userID string, quoteID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", quoteID, userID).
		Delete(&models.Quote{})
	if result.Error != nil {
		return fmt.Errorf("delete quote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quoteRepository) GetVisible(ctx context.Context, viewerID string, quoteID int64) (*QuoteView, error) {
	var rows []QuoteView
	if err := r.viewQuery(ctx, viewerID).
		Where("quotes.id = ?", quoteID).
		Where("(quotes.is_public OR quotes.user_id = ?)", viewerID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ListForBook returns the book's public quotes plus the viewer's private ones, newest first.
func (r *quoteRepository) ListForBook(ctx context.Context, viewerID string, bookID int64, page, pageSize int) ([]QuoteView, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("quotes.book_id = ?", bookID).
			Where("(quotes.is_public OR quotes.user_id = ?)", viewerID)
	}
	return r.list(ctx, viewerID, filter, page, pageSize)
}

func (r *quoteRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]QuoteView, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("quotes.user_id = ?", userID)
	}
	return r.list(ctx, userID, filter, page, pageSize)
}

func (r *quoteRepository) Like(ctx context.Context, userID string, quoteID int64) error {
	like := models.QuoteLike{QuoteID: quoteID, UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error; err != nil {
		return fmt.Errorf("like quote: %w", err)
	}
	return nil
}

func (r *quoteRepository) Unlike(ctx context.Context, userID string, quoteID int64) error {
	if err := r.db.WithContext(ctx).
		Where("quote_id = ? AND user_id = ?", quoteID, userID).
		Delete(&models.QuoteLike{}).Error; err != nil {
		return fmt.Errorf("unlike quote: %w", err)
	}
	return nil
}

func (r *quoteRepository) list(ctx context.Context, viewerID string, filter func(*gorm.DB) *gorm.DB, page, pageSize int) ([]QuoteView, int64, error) {
	var total int64
	if err := filter(r.db.WithContext(ctx).Model(&models.Quote{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	var rows []QuoteView
	if err := filter(r.viewQuery(ctx, viewerID)).
		Order("quotes.created_at desc, quotes.id desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	return rows, total, nil
}

func (r *quoteRepository) viewQuery(ctx context.Context, viewerID string) *gorm.DB {
	return r.db.WithContext(ctx).Table("quotes").
		Select(`quotes.*,
			(SELECT COUNT(*) FROM quote_likes ql WHERE ql.quote_id = quotes.id) AS likes_count,
			EXISTS (SELECT 1 FROM quote_likes ql WHERE ql.quote_id = quotes.id AND ql.user_id = ?) AS liked_by_me`, viewerID)
}
