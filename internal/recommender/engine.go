package recommender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// MinPoolWorldRating is the world rating a book needs to enter the content pool.
const MinPoolWorldRating = 4.0

// Engine produces ranked recommendations for a user. It holds no per-user state.
type Engine struct {
	catalog Catalog
	prefs   PreferenceStore
	history HistoryStore
	similar *SimilarityFinder
	logger  *slog.Logger
}

func NewEngine(catalog Catalog, prefs PreferenceStore, history HistoryStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalog: catalog,
		prefs:   prefs,
		history: history,
		similar: NewSimilarityFinder(catalog),
		logger:  logger,
	}
}

// Recommend returns at most limit books for userID ranked under strategy.
// Users without a survey profile get an empty result. Store failures are returned as errors.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int, strategy Strategy) ([]Recommendation, error) {
	if limit <= 0 {
		return []Recommendation{}, nil
	}

	profile, err := e.prefs.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			e.logger.Debug("recommendations_skipped_no_profile", "user_id", userID)
			return []Recommendation{}, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	history, err := e.history.ReadingHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load reading history: %w", err)
	}

	var ids []int64
	switch strategy {
	case StrategyContent:
		ids, err = e.contentIDs(ctx, profile, history, limit)
	case StrategySimilar:
		ids, err = e.similarIDs(ctx, profile, history, limit)
	default:
		ids, err = e.mixedIDs(ctx, profile, history, limit)
	}
	if err != nil {
		return nil, err
	}

	recs, err := e.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("recommendations_computed",
		"user_id", userID,
		"strategy", string(strategy),
		"limit", limit,
		"count", len(recs),
	)
	return recs, nil
}

func (e *Engine) contentIDs(ctx context.Context, p *Profile, h *History, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}
	pool, err := e.catalog.CandidatePool(ctx, PoolQuery{
		MinWorldRating: MinPoolWorldRating,
		BannedGenres:   p.GenreWeights.Banned(),
		ExcludeIDs:     h.BookIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	// the store filters already; re-check so a lax store can't leak banned or read books
	read := idSet(h.BookIDs)
	filtered := pool[:0:0]
	for _, b := range pool {
		if _, ok := read[b.ID]; ok {
			continue
		}
		if !b.Approved || p.GenreWeights.IsBanned(b.Genre) {
			continue
		}
		if b.WorldRating == nil || *b.WorldRating < MinPoolWorldRating {
			continue
		}
		filtered = append(filtered, b)
	}

	ranked := RankByScore(filtered, p.GenreWeights, NewAuthorSet(p.FavoriteAuthorIDs))
	return topIDs(ranked, limit), nil
}

func (e *Engine) similarIDs(ctx context.Context, p *Profile, h *History, limit int) ([]int64, error) {
	ids, err := e.similar.FindSimilar(ctx, h.LikedBookIDs, limit, Exclusion{
		Weights: p.GenreWeights,
		BookIDs: h.BookIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("find similar books: %w", err)
	}
	return ids, nil
}

// mixedIDs puts the content half first, then similar books the content half did not already pick.
// Similar books dropped as duplicates are not backfilled, so the result may be shorter than limit.
func (e *Engine) mixedIDs(ctx context.Context, p *Profile, h *History, limit int) ([]int64, error) {
	contentLimit := limit / 2
	similarLimit := limit - contentLimit

	content, err := e.contentIDs(ctx, p, h, contentLimit)
	if err != nil {
		return nil, err
	}
	similar, err := e.similarIDs(ctx, p, h, similarLimit)
	if err != nil {
		return nil, err
	}

	seen := idSet(content)
	ids := make([]int64, 0, len(content)+len(similar))
	ids = append(ids, content...)
	for _, id := range similar {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// resolve loads the ranked ids and keeps their order.
func (e *Engine) resolve(ctx context.Context, ids []int64) ([]Recommendation, error) {
	if len(ids) == 0 {
		return []Recommendation{}, nil
	}
	books, err := e.catalog.BooksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve recommended books: %w", err)
	}
	byID := make(map[int64]Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	out := make([]Recommendation, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, Recommendation{ID: b.ID, Title: b.Title, WorldRating: b.WorldRating})
	}
	return out, nil
}

func idSet(ids []int64) map[int64]struct{} {
	s := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}
