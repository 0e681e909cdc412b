package repository

import (
	"context"
	"fmt"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type AuthorRepo struct {
	db *gorm.DB
}

func NewAuthorRepo(db *gorm.DB) *AuthorRepo {
	return &AuthorRepo{db: db}
}

// SearchByName performs a case-insensitive partial match on the author name.
func (r *AuthorRepo) SearchByName(ctx context.Context, query string, limit int) ([]models.Author, error) {
	var list []models.Author
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ?", containsPattern(query)).
		Order("name asc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}
	return list, nil
}
