package service

import (
	"context"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
)

// AddToWatchlist reports whether the movie was newly added; a duplicate is not an error.
func (s *Service) AddToWatchlist(ctx context.Context, userID int64, in domain.WatchlistInput) (bool, error) {
	if err := validation.Struct(&in); err != nil {
		return false, err
	}
	if err := s.requireActiveMovie(ctx, in.MovieID); err != nil {
		return false, err
	}
	return s.store.AddToWatchlist(ctx, userID, in.MovieID, in.Status)
}

func (s *Service) UpdateWatchStatus(ctx context.Context, userID int64, in domain.WatchlistInput) error {
	if in.Status == "" {
		in.Status = domain.StatusWatched
	}
	if err := validation.Struct(&in); err != nil {
		return err
	}
	return s.store.UpdateWatchStatus(ctx, userID, in.MovieID, in.Status)
}

func (s *Service) RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error {
	return s.store.RemoveFromWatchlist(ctx, userID, movieID)
}

func (s *Service) ListWatchlist(ctx context.Context, userID int64) ([]domain.WatchlistEntry, error) {
	return s.store.ListWatchlist(ctx, userID)
}

func (s *Service) ListAllWatchlists(ctx context.Context, page, limit int) ([]domain.WatchlistEntry, error) {
	return s.store.ListAllWatchlists(ctx, page, limit)
}
