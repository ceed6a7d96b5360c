package service

import (
	"context"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
	"go.uber.org/zap"
)

// RateMovie records or replaces the user's rating of an active movie and
// invalidates the user's cached recommendations.
func (s *Service) RateMovie(ctx context.Context, userID int64, in domain.RatingInput) (*domain.Rating, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.requireActiveMovie(ctx, in.MovieID); err != nil {
		return nil, err
	}

	rating, err := s.store.UpsertRating(ctx, userID, in.MovieID, in.Value)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return rating, nil
}

func (s *Service) GetMyRating(ctx context.Context, userID, movieID int64) (*domain.Rating, error) {
	return s.store.GetUserMovieRating(ctx, userID, movieID)
}

func (s *Service) ListMyRatings(ctx context.Context, userID int64) ([]domain.Rating, error) {
	return s.store.ListUserRatings(ctx, userID)
}

func (s *Service) DeleteMyRating(ctx context.Context, userID, movieID int64) error {
	if err := s.store.DeleteRating(ctx, userID, movieID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) ListMovieRatings(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	return s.store.ListMovieRatings(ctx, movieID)
}

func (s *Service) ListAllRatings(ctx context.Context, page, limit int) ([]domain.Rating, error) {
	return s.store.ListAllRatings(ctx, page, limit)
}

func (s *Service) DeleteRatingByID(ctx context.Context, ratingID int64) error {
	userID, err := s.store.DeleteRatingByID(ctx, ratingID)
	if err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) requireActiveMovie(ctx context.Context, movieID int64) error {
	m, err := s.store.GetMovieByID(ctx, movieID)
	if err != nil {
		return err
	}
	if !m.IsActive {
		return domain.ErrMovieNotFound
	}
	return nil
}

// Clear the user's cached recommendations after their ratings change
func (s *Service) invalidate(ctx context.Context, userID int64) {
	if err := s.cache.ClearUserCache(ctx, userID); err != nil {
		s.log.Warn("cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
