package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/recommend"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetRecommendations returns personalized recommendations for an existing user,
// optionally restricted to a genre, serving from the cache when possible.
func (s *Service) GetRecommendations(ctx context.Context, userID int64, k int, genre string) (*domain.RecommendationResult, error) {
	k = ClampK(k)
	genre = strings.TrimSpace(genre)

	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	// Check cache
	cached, err := s.cache.Get(ctx, userID, k, genre)
	if err != nil {
		s.log.Warn("cache get failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	// Cache miss -> generate recommendations
	var res recommend.Result
	if genre == "" {
		res, err = s.engine.RecommendForUser(ctx, userID, k)
	} else {
		res, err = s.engine.RecommendByGenre(ctx, userID, genre, k)
	}
	if err != nil {
		return nil, err
	}
	out := toResult(res)

	if cacheErr := s.cache.Set(ctx, userID, k, genre, out); cacheErr != nil {
		s.log.Warn("cache set failed", zap.Int64("user_id", userID), zap.Error(cacheErr))
	}
	return out, nil
}

func (s *Service) SimilarMovies(ctx context.Context, movieID int64, k int) (*domain.RecommendationResult, error) {
	res, err := s.engine.SimilarMovies(ctx, movieID, ClampK(k))
	if err != nil {
		return nil, err
	}
	return toResult(res), nil
}

func (s *Service) PopularMovies(ctx context.Context, k int, genre string) (*domain.RecommendationResult, error) {
	res, err := s.engine.PopularMovies(ctx, ClampK(k), strings.TrimSpace(genre))
	if err != nil {
		return nil, err
	}
	return toResult(res), nil
}

func (s *Service) TrendingMovies(ctx context.Context, k int) (*domain.RecommendationResult, error) {
	res, err := s.engine.TrendingMovies(ctx, ClampK(k))
	if err != nil {
		return nil, err
	}
	return toResult(res), nil
}

func toResult(res recommend.Result) *domain.RecommendationResult {
	movies := res.Movies
	if movies == nil {
		movies = []domain.RankedMovie{}
	}
	return &domain.RecommendationResult{Recommendations: movies, Source: res.Source}
}

// GetBatchRecommendations produces recommendations for one page of active users.
// Per-user failures are reported in the result rather than failing the batch.
func (s *Service) GetBatchRecommendations(ctx context.Context, page, limit int) (*domain.BatchResponse, error) {
	start := time.Now()

	userIDs, err := s.store.GetUserIDsPaginated(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.BatchUserResult, len(userIDs))
	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, userID := range userIDs {
		g.Go(func() error {
			results[i] = s.processUserForBatch(ctx, userID)
			return nil
		})
	}
	_ = g.Wait()

	successCount := 0
	failedCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}

	return &domain.BatchResponse{
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      failedCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Generates recommendations for a single user, capturing errors.
func (s *Service) processUserForBatch(ctx context.Context, userID int64) domain.BatchUserResult {
	result, err := s.GetRecommendations(ctx, userID, batchRecK, "")
	if err != nil {
		s.log.Warn("batch recommendation failed", zap.Int64("user_id", userID), zap.Error(err))
		code, msg := CategorizeError(err)
		return domain.BatchUserResult{
			UserID:  userID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}

	return domain.BatchUserResult{
		UserID:          userID,
		Recommendations: result.Recommendations,
		Source:          result.Source,
		Status:          domain.StatusSuccess,
	}
}

// CategorizeError maps an error to a stable code and a client-safe message.
func CategorizeError(err error) (string, string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found", "user not found"
	case errors.Is(err, domain.ErrNotFound):
		return "movie_not_in_model", "movie is not known to the similarity model"
	case errors.Is(err, domain.ErrEmptyCatalog):
		return "empty_catalog", "no movies available to recommend"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return "catalog_unavailable", "movie catalog is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "request_timeout", "request timed out, please try again"
	}
	return "internal_error", "an unexpected error occurred"
}
