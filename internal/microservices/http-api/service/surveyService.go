package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/recommender"
)

var (
	ErrInvalidStep      = errors.New("unknown survey step")
	ErrDraftNotFound    = errors.New("survey draft not found")
	ErrDraftIncomplete  = errors.New("survey draft is incomplete")
	ErrUnknownReference = errors.New("survey references an unknown author or book")
)

const (
	maxPreferredGenres = 5
	maxReadingGoalLen  = 50
)

// ValidationError reports an invalid survey answer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// SurveyStore commits survey answers.
type SurveyStore interface {
	SaveSurvey(ctx context.Context, rec *repository.SurveyRecord) error
}

type SurveyService interface {
	GetDraft(ctx context.Context, userID string) (*models.SurveyDraft, error)
	SaveStep(ctx context.Context, userID, step string, req dto.SurveyStepRequest) (*models.SurveyDraft, error)
	// Complete commits the draft and returns fresh recommendations.
	Complete(ctx context.Context, userID string) ([]recommender.Recommendation, error)
	// Submit validates and commits a whole survey at once. Unlike the step flow it accepts
	// an empty banned genre list.
	Submit(ctx context.Context, userID string, req dto.SurveySubmission) ([]recommender.Recommendation, error)
	Discard(ctx context.Context, userID string) error
}

type surveyService struct {
	drafts  repository.SurveyDraftStore
	store   SurveyStore
	recs    RecommendationService
	logger  *slog.Logger
	nowFunc func() time.Time
}

func NewSurveyService(
	drafts repository.SurveyDraftStore,
	store SurveyStore,
	recs RecommendationService,
	logger *slog.Logger,
) SurveyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &surveyService{
		drafts:  drafts,
		store:   store,
		recs:    recs,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (s *surveyService) GetDraft(ctx context.Context, userID string) (*models.SurveyDraft, error) {
	draft, err := s.drafts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return draft, nil
}

func (s *surveyService) SaveStep(ctx context.Context, userID, step string, req dto.SurveyStepRequest) (*models.SurveyDraft, error) {
	draft, err := s.drafts.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrDraftNotFound) {
			return nil, err
		}
		draft = &models.SurveyDraft{UserID: userID}
	}

	if err := applyStep(draft, step, req); err != nil {
		return nil, err
	}
	draft.MarkStep(step)
	draft.UpdatedAt = s.nowFunc().UTC()

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	s.logger.Debug("survey_step_saved", "user_id", userID, "step", step)
	return draft, nil
}

func (s *surveyService) Complete(ctx context.Context, userID string) ([]recommender.Recommendation, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	if missing := draft.MissingSteps(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrDraftIncomplete, strings.Join(missing, ", "))
	}
	if err := s.commit(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, userID); err != nil {
		// the profile is committed; a leftover draft just expires
		s.logger.Warn("survey_draft_delete_failed", "user_id", userID, "error", err.Error())
	}
	return s.recs.UpdateRecommendations(ctx, userID, DefaultRecommendationLimit)
}

func (s *surveyService) Submit(ctx context.Context, userID string, req dto.SurveySubmission) ([]recommender.Recommendation, error) {
	draft := &models.SurveyDraft{UserID: userID}
	step := req.Step()
	for _, name := range models.SurveySteps {
		// banning genres is optional in a one-shot submission
		if name == models.StepBanned && len(step.BannedGenres) == 0 {
			draft.MarkStep(name)
			continue
		}
		if err := applyStep(draft, name, step); err != nil {
			return nil, err
		}
		draft.MarkStep(name)
	}
	if err := s.commit(ctx, draft); err != nil {
		return nil, err
	}
	return s.recs.UpdateRecommendations(ctx, userID, DefaultRecommendationLimit)
}

func (s *surveyService) Discard(ctx context.Context, userID string) error {
	return s.drafts.Delete(ctx, userID)
}

func (s *surveyService) commit(ctx context.Context, d *models.SurveyDraft) error {
	if err := checkDisjoint(d.PreferredGenres, d.BannedGenres); err != nil {
		return err
	}

	prefs := make([]models.GenrePreference, 0, len(d.PreferredGenres)+len(d.BannedGenres))
	for _, g := range d.PreferredGenres {
		prefs = append(prefs, models.GenrePreference{UserID: d.UserID, Genre: g, Weight: recommender.WeightPreferred})
	}
	for _, g := range d.BannedGenres {
		prefs = append(prefs, models.GenrePreference{UserID: d.UserID, Genre: g, Weight: recommender.WeightBanned})
	}

	rec := &repository.SurveyRecord{
		Profile: models.SurveyProfile{
			UserID:           d.UserID,
			ReadingGoal:      d.ReadingGoal,
			ReadingFrequency: d.ReadingFrequency,
			MoodTags:         nonNil(d.MoodTags),
			Languages:        nonNil(d.Languages),
			ContentFilters:   nonNil(d.ContentFilters),
			OtherFilters:     d.OtherFilters,
		},
		FavoriteAuthorIDs: d.FavoriteAuthors,
		FavoriteBookIDs:   d.FavoriteBooks,
		Preferences:       prefs,
	}

	if err := s.store.SaveSurvey(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return fmt.Errorf("%w: %v", ErrUnknownReference, err)
		}
		return fmt.Errorf("save survey: %w", err)
	}
	s.logger.Info("survey_committed",
		"user_id", d.UserID,
		"preferred_genres", len(d.PreferredGenres),
		"banned_genres", len(d.BannedGenres),
		"favorite_authors", len(d.FavoriteAuthors),
		"favorite_books", len(d.FavoriteBooks),
	)
	return nil
}

// applyStep validates the answers of step and writes them into d.
func applyStep(d *models.SurveyDraft, step string, req dto.SurveyStepRequest) error {
	switch step {
	case models.StepGenres:
		genres, err := parseGenres("preferred_genres", req.PreferredGenres)
		if err != nil {
			return err
		}
		if len(genres) == 0 {
			return invalid("preferred_genres", "select at least one genre")
		}
		if len(genres) > maxPreferredGenres {
			return invalid("preferred_genres", "select at most %d genres", maxPreferredGenres)
		}
		d.PreferredGenres = genres

	case models.StepBanned:
		genres, err := parseGenres("banned_genres", req.BannedGenres)
		if err != nil {
			return err
		}
		if len(genres) == 0 {
			return invalid("banned_genres", "select at least one genre")
		}
		if err := checkDisjoint(d.PreferredGenres, genres); err != nil {
			return err
		}
		d.BannedGenres = genres

	case models.StepGoal:
		goal := strings.TrimSpace(req.ReadingGoal)
		if goal == "" {
			return invalid("reading_goal", "choose a reading goal")
		}
		if utf8.RuneCountInString(goal) > maxReadingGoalLen {
			return invalid("reading_goal", "must be at most %d characters", maxReadingGoalLen)
		}
		d.ReadingGoal = goal
		d.MoodTags = cleanStrings(req.MoodTags)

	case models.StepFrequency:
		if req.ReadingFrequency <= 0 {
			return invalid("reading_frequency", "must be greater than zero")
		}
		d.ReadingFrequency = req.ReadingFrequency
		d.Languages = cleanStrings(req.Languages)

	case models.StepAuthors:
		ids, err := cleanIDs("favorite_authors", req.FavoriteAuthors)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return invalid("favorite_authors", "select at least one author")
		}
		d.FavoriteAuthors = ids

	case models.StepBooks:
		ids, err := cleanIDs("favorite_books", req.FavoriteBooks)
		if err != nil {
			return err
		}
		d.FavoriteBooks = ids
		d.ContentFilters = cleanStrings(req.ContentFilters)
		d.OtherFilters = strings.TrimSpace(req.OtherFilters)

	default:
		return fmt.Errorf("%w: %q", ErrInvalidStep, step)
	}
	return nil
}

func parseGenres(field string, raw []string) ([]string, error) {
	seen := make(map[recommender.Genre]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		g, ok := recommender.ParseGenre(s)
		if !ok {
			return nil, invalid(field, "unknown genre %q", s)
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, string(g))
	}
	return out, nil
}

func checkDisjoint(preferred, banned []string) error {
	set := make(map[string]struct{}, len(preferred))
	for _, g := range preferred {
		set[g] = struct{}{}
	}
	for _, g := range banned {
		if _, ok := set[g]; ok {
			return invalid("banned_genres", "genre %q is also preferred", g)
		}
	}
	return nil
}

func cleanIDs(field string, ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, invalid(field, "invalid id %d", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func cleanStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
