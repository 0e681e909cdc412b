package repository

import (
	"context"
	"fmt"
	"strings"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/recommender"

	"gorm.io/gorm"
)

// maxSeedScan bounds how many top-rated books autocomplete searches through.
const maxSeedScan = 50

// BookRepo is the catalog store. It implements recommender.Catalog.
type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

// CandidatePool returns approved books rated at least q.MinWorldRating, outside the banned
// genres and not excluded, ordered by ascending id.
func (r *BookRepo) CandidatePool(ctx context.Context, q recommender.PoolQuery) ([]recommender.Book, error) {
	var list []models.Book
	tx := r.db.WithContext(ctx).
		Preload("Authors").
		Where("is_approved = ?", true).
		Where("world_rating >= ?", q.MinWorldRating)
	if len(q.BannedGenres) > 0 {
		tx = tx.Where("genre NOT IN ?", genreCodes(q.BannedGenres))
	}
	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("id NOT IN ?", q.ExcludeIDs)
	}
	if err := tx.Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}
	return toRecommenderBooks(list), nil
}

func (r *BookRepo) BooksByIDs(ctx context.Context, ids []int64) ([]recommender.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Preload("Authors").
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get books by ids: %w", err)
	}
	return toRecommenderBooks(list), nil
}

// SimilarCandidates aggregates reviews for approved books that share a genre OR an author with q.
// Books below the similarity quality bar are dropped in SQL.
func (r *BookRepo) SimilarCandidates(ctx context.Context, q recommender.SimilarQuery) ([]recommender.SimilarCandidate, error) {
	if len(q.Genres) == 0 && len(q.AuthorIDs) == 0 {
		return nil, nil
	}

	db := r.db.WithContext(ctx)
	authored := db.Model(&models.BookAuthor{}).Select("book_id").Where("author_id IN ?", q.AuthorIDs)

	tx := db.Table("books AS b").
		Select("b.id AS book_id, b.genre AS genre, COUNT(rv.id) AS rating_count, COALESCE(AVG(rv.rating), 0) AS average_rating").
		Joins("JOIN reviews rv ON rv.book_id = b.id").
		Where("b.is_approved = ?", true)

	switch {
	case len(q.Genres) > 0 && len(q.AuthorIDs) > 0:
		tx = tx.Where("b.genre IN ? OR b.id IN (?)", genreCodes(q.Genres), authored)
	case len(q.Genres) > 0:
		tx = tx.Where("b.genre IN ?", genreCodes(q.Genres))
	default:
		tx = tx.Where("b.id IN (?)", authored)
	}
	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("b.id NOT IN ?", q.ExcludeIDs)
	}

	var rows []struct {
		BookID        int64
		Genre         string
		RatingCount   int64
		AverageRating float64
	}
	if err := tx.
		Group("b.id, b.genre").
		Having("COUNT(rv.id) >= ? AND AVG(rv.rating) >= ?", recommender.MinSimilarRatings, recommender.MinSimilarAverageRating).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get similar candidates: %w", err)
	}

	out := make([]recommender.SimilarCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, recommender.SimilarCandidate{
			BookID:        row.BookID,
			Genre:         recommender.Genre(row.Genre),
			RatingCount:   row.RatingCount,
			AverageRating: row.AverageRating,
		})
	}
	return out, nil
}

// GetByID returns an approved book with its authors.
func (r *BookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).
		Preload("Authors").
		Where("is_approved = ?", true).
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// BookFilter narrows catalog listing. Zero values mean no filter.
type BookFilter struct {
	Query     string
	Genre     recommender.Genre
	MinRating *float64
	Page      int
	PageSize  int
}

// List pages through approved books, best rated first.
// Every whitespace-separated token of Query must match the title or an author name.
func (r *BookRepo) List(ctx context.Context, f BookFilter) ([]models.Book, int64, error) {
	var total int64
	if err := r.listQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	var list []models.Book
	if err := r.listQuery(ctx, f).
		Preload("Authors").
		Order("world_rating desc nulls last, id asc").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return list, total, nil
}

func (r *BookRepo) listQuery(ctx context.Context, f BookFilter) *gorm.DB {
	db := r.db.WithContext(ctx)
	tx := db.Model(&models.Book{}).Where("is_approved = ?", true)
	if f.Genre != "" {
		tx = tx.Where("genre = ?", string(f.Genre))
	}
	if f.MinRating != nil {
		tx = tx.Where("world_rating >= ?", *f.MinRating)
	}
	for _, t := range strings.Fields(f.Query) {
		p := containsPattern(t)
		authored := db.Model(&models.BookAuthor{}).
			Select("book_authors.book_id").
			Joins("JOIN authors a ON a.id = book_authors.author_id").
			Where("a.name ILIKE ?", p)
		tx = tx.Where("(title ILIKE ? OR id IN (?))", p, authored)
	}
	return tx
}

// SeedFilter narrows the survey seed list.
type SeedFilter struct {
	Preferred      []recommender.Genre
	Banned         []recommender.Genre
	MinWorldRating float64
}

func (r *BookRepo) seedQuery(ctx context.Context, f SeedFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("is_approved = ?", true).
		Where("world_rating >= ?", f.MinWorldRating)
	if len(f.Banned) > 0 {
		tx = tx.Where("genre NOT IN ?", genreCodes(f.Banned))
	}
	if len(f.Preferred) > 0 {
		tx = tx.Where("genre IN ?", genreCodes(f.Preferred))
	}
	return tx
}

// SeedBooks returns the best rated approved books for the survey's favorite-books step.
func (r *BookRepo) SeedBooks(ctx context.Context, f SeedFilter, limit int) ([]models.Book, error) {
	var list []models.Book
	if err := r.seedQuery(ctx, f).
		Order("world_rating desc, id asc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get seed books: %w", err)
	}
	return list, nil
}

// SearchSeedBooks matches title case-insensitively among the top seed books.
func (r *BookRepo) SearchSeedBooks(ctx context.Context, f SeedFilter, query string, limit int) ([]models.Book, error) {
	seeds := r.seedQuery(ctx, f).
		Select("id").
		Order("world_rating desc, id asc").
		Limit(maxSeedScan)

	var list []models.Book
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", seeds).
		Where("title ILIKE ?", containsPattern(query)).
		Order("world_rating desc, id asc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search seed books: %w", err)
	}
	return list, nil
}

func toRecommenderBooks(list []models.Book) []recommender.Book {
	out := make([]recommender.Book, 0, len(list))
	for i := range list {
		b := &list[i]
		out = append(out, recommender.Book{
			ID:          b.ID,
			Title:       b.Title,
			Genre:       recommender.Genre(b.Genre),
			AuthorIDs:   b.AuthorIDs(),
			WorldRating: b.WorldRating,
			Approved:    b.IsApproved,
		})
	}
	return out
}

func genreCodes(genres []recommender.Genre) []string {
	codes := make([]string, 0, len(genres))
	for _, g := range genres {
		codes = append(codes, string(g))
	}
	return codes
}
