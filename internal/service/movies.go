package service

import (
	"context"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
	"go.uber.org/zap"
)

const searchLimit = 50

func (s *Service) ListMovies(ctx context.Context, page, limit int) ([]domain.Movie, error) {
	return s.store.ListMovies(ctx, page, limit)
}

func (s *Service) ListAllMovies(ctx context.Context, page, limit int) ([]domain.Movie, error) {
	return s.store.ListAllMovies(ctx, page, limit)
}

// GetMovie returns an active movie with its average user rating.
func (s *Service) GetMovie(ctx context.Context, movieID int64) (*domain.MovieDetails, error) {
	d, err := s.store.GetMovieDetails(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, domain.ErrMovieNotFound
	}
	return d, nil
}

func (s *Service) SearchMovies(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Movie{}, nil
	}
	return s.store.SearchMovies(ctx, query, searchLimit)
}

// MoviesByGenre lists active movies whose genres contain genre, ignoring case.
func (s *Service) MoviesByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	return s.store.GetActiveMovies(ctx, strings.TrimSpace(genre))
}

func (s *Service) CreateMovie(ctx context.Context, in domain.NewMovie) (*domain.Movie, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	m, err := s.store.CreateMovie(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("movie created", zap.Int64("movie_id", m.ID))
	return m, nil
}

func (s *Service) UpdateMovie(ctx context.Context, movieID int64, u domain.MovieUpdate) (*domain.Movie, error) {
	if u.Empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if err := validation.Struct(&u); err != nil {
		return nil, err
	}
	return s.store.UpdateMovie(ctx, movieID, u)
}

func (s *Service) SetMovieActive(ctx context.Context, movieID int64, active bool) error {
	return s.store.SetMovieActive(ctx, movieID, active)
}

func (s *Service) DeleteMovie(ctx context.Context, movieID int64) error {
	if err := s.store.DeleteMovie(ctx, movieID); err != nil {
		return err
	}
	s.log.Info("movie deleted", zap.Int64("movie_id", movieID))
	return nil
}
