package service

import (
	"context"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

const analyticsLimit = 10

func (s *Service) UserRatingHistory(ctx context.Context, userID int64) ([]domain.RatedMovie, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.UserRatingHistory(ctx, userID)
}

func (s *Service) TopRatedMovies(ctx context.Context) ([]domain.TopRatedMovie, error) {
	return s.store.TopRatedMovies(ctx, analyticsLimit)
}

func (s *Service) MostActiveUsers(ctx context.Context) ([]domain.ActiveUser, error) {
	return s.store.MostActiveUsers(ctx, analyticsLimit)
}

func (s *Service) RatingDistribution(ctx context.Context) ([]domain.RatingBucket, error) {
	return s.store.RatingDistribution(ctx)
}
