package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookhub/internal/microservices/http-api/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var ErrDraftNotFound = errors.New("survey draft not found")

type SurveyDraftStore interface {
	Get(ctx context.Context, userID string) (*models.SurveyDraft, error)
	Save(ctx context.Context, draft *models.SurveyDraft) error
	Delete(ctx context.Context, userID string) error
}

type surveyDraftRedis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSurveyDraftRedis stores drafts as JSON strings that expire ttl after the last saved step.
func NewSurveyDraftRedis(client *redis.Client, ttl time.Duration) SurveyDraftStore {
	return &surveyDraftRedis{client: client, ttl: ttl}
}

func draftKey(userID string) string {
	return fmt.Sprintf("survey:draft:%s", userID)
}

func (r *surveyDraftRedis) Get(ctx context.Context, userID string) (*models.SurveyDraft, error) {
	raw, err := r.client.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("get survey draft: %w", err)
	}

	var draft models.SurveyDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode survey draft: %w", err)
	}
	return &draft, nil
}

// Save overwrites the draft and refreshes its expiry.
func (r *surveyDraftRedis) Save(ctx context.Context, draft *models.SurveyDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode survey draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(draft.UserID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save survey draft: %w", err)
	}
	return nil
}

func (r *surveyDraftRedis) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete survey draft: %w", err)
	}
	return nil
}
