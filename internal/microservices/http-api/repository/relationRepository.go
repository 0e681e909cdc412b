package repository

import (
	"context"
	"fmt"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/recommender"

	"gorm.io/gorm"
)

// RelationRepo reads user-book relations. It implements recommender.HistoryStore.
type RelationRepo struct {
	db *gorm.DB
}

func NewRelationRepo(db *gorm.DB) *RelationRepo {
	return &RelationRepo{db: db}
}

func (r *RelationRepo) ReadingHistory(ctx context.Context, userID string) (*recommender.History, error) {
	var relations []models.UserBookRelation
	if err := r.db.WithContext(ctx).
		Select("book_id", "liked", "rating").
		Where("user_id = ?", userID).
		Order("book_id asc").
		Find(&relations).Error; err != nil {
		return nil, fmt.Errorf("list reading history: %w", err)
	}

	h := &recommender.History{BookIDs: make([]int64, 0, len(relations))}
	for _, rel := range relations {
		h.BookIDs = append(h.BookIDs, rel.BookID)
		if rel.Liked {
			h.LikedBookIDs = append(h.LikedBookIDs, rel.BookID)
		}
		if rel.Rating != nil {
			h.RatedBookIDs = append(h.RatedBookIDs, rel.BookID)
		}
	}
	return h, nil
}
