package repository

import (
	"context"
	"errors"
	"fmt"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/recommender"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrForeignKey is returned when a survey references an author or book that does not exist.
var ErrForeignKey = errors.New("referenced record does not exist")

// postgres SQLSTATE foreign_key_violation
const pgForeignKeyViolation = "23503"

// SurveyRecord is everything committed by one survey submission.
type SurveyRecord struct {
	Profile           models.SurveyProfile
	FavoriteAuthorIDs []int64
	FavoriteBookIDs   []int64
	Preferences       []models.GenrePreference
}

// PreferenceRepo stores survey profiles and genre preferences. It implements recommender.PreferenceStore.
type PreferenceRepo struct {
	db *gorm.DB
}

func NewPreferenceRepo(db *gorm.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// Profile returns recommender.ErrProfileNotFound when the user never completed the survey.
func (r *PreferenceRepo) Profile(ctx context.Context, userID string) (*recommender.Profile, error) {
	db := r.db.WithContext(ctx)

	var sp models.SurveyProfile
	if err := db.Where("user_id = ?", userID).First(&sp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recommender.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get survey profile: %w", err)
	}

	weights, err := r.GenreWeights(ctx, userID)
	if err != nil {
		return nil, err
	}

	var authorIDs, bookIDs []int64
	if err := db.Model(&models.SurveyFavoriteAuthor{}).
		Where("user_id = ?", userID).
		Order("author_id asc").
		Pluck("author_id", &authorIDs).Error; err != nil {
		return nil, fmt.Errorf("get favorite authors: %w", err)
	}
	if err := db.Model(&models.SurveyFavoriteBook{}).
		Where("user_id = ?", userID).
		Order("book_id asc").
		Pluck("book_id", &bookIDs).Error; err != nil {
		return nil, fmt.Errorf("get favorite books: %w", err)
	}

	return &recommender.Profile{
		UserID:            userID,
		GenreWeights:      weights,
		FavoriteAuthorIDs: authorIDs,
		FavoriteBookIDs:   bookIDs,
	}, nil
}

// GenreWeights returns the user's genre weights. A user without preferences gets an empty map.
func (r *PreferenceRepo) GenreWeights(ctx context.Context, userID string) (recommender.GenreWeights, error) {
	var prefs []models.GenrePreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("get genre preferences: %w", err)
	}
	weights := make(recommender.GenreWeights, len(prefs))
	for _, p := range prefs {
		weights[recommender.Genre(p.Genre)] = p.Weight
	}
	return weights, nil
}

// SaveSurvey upserts the profile and replaces favorites and genre preferences in one transaction.
func (r *PreferenceRepo) SaveSurvey(ctx context.Context, rec *SurveyRecord) error {
	userID := rec.Profile.UserID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"reading_goal", "reading_frequency", "mood_tags", "languages",
				"content_filters", "other_filters", "updated_at",
			}),
		}).Create(&rec.Profile).Error; err != nil {
			return fmt.Errorf("upsert survey profile: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.SurveyFavoriteAuthor{}).Error; err != nil {
			return fmt.Errorf("clear favorite authors: %w", err)
		}
		if len(rec.FavoriteAuthorIDs) > 0 {
			rows := make([]models.SurveyFavoriteAuthor, 0, len(rec.FavoriteAuthorIDs))
			for _, id := range rec.FavoriteAuthorIDs {
				rows = append(rows, models.SurveyFavoriteAuthor{UserID: userID, AuthorID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("save favorite authors: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.SurveyFavoriteBook{}).Error; err != nil {
			return fmt.Errorf("clear favorite books: %w", err)
		}
		if len(rec.FavoriteBookIDs) > 0 {
			rows := make([]models.SurveyFavoriteBook, 0, len(rec.FavoriteBookIDs))
			for _, id := range rec.FavoriteBookIDs {
				rows = append(rows, models.SurveyFavoriteBook{UserID: userID, BookID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("save favorite books: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.GenrePreference{}).Error; err != nil {
			return fmt.Errorf("clear genre preferences: %w", err)
		}
		if len(rec.Preferences) > 0 {
			if err := tx.Create(&rec.Preferences).Error; err != nil {
				return fmt.Errorf("save genre preferences: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
		}
		return err
	}
	return nil
}
