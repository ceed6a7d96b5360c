package service

import (
	"context"
	"errors"

	"github.com/actuallystonmai/movie-recommender/internal/metrics"
	"go.uber.org/zap"
)

// ErrPostersDisabled is returned when no poster source is configured.
var ErrPostersDisabled = errors.New("poster lookup is not configured")

// PosterSummary counts the outcome of a poster backfill.
type PosterSummary struct {
	Checked int
	Found   int
	Missing int
	Failed  int
}

// FetchPosters fills in posters for movies that have none. Lookup failures are
// counted and logged; only store errors and cancellation abort the run.
func (s *Service) FetchPosters(ctx context.Context) (PosterSummary, error) {
	var sum PosterSummary
	if s.posters == nil {
		return sum, ErrPostersDisabled
	}

	movies, err := s.store.MoviesMissingPosters(ctx, posterBatchSize)
	if err != nil {
		return sum, err
	}

	for _, m := range movies {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Checked++

		url, err := s.posters.FindPoster(ctx, m.Title, m.ReleaseDate)
		switch {
		case err != nil:
			sum.Failed++
			metrics.PosterFetches.WithLabelValues("failed").Inc()
			s.log.Warn("poster lookup failed", zap.Int64("movie_id", m.ID), zap.String("title", m.Title), zap.Error(err))
			continue
		case url == "":
			sum.Missing++
			metrics.PosterFetches.WithLabelValues("missing").Inc()
			continue
		}

		if err := s.store.UpdatePoster(ctx, m.ID, url); err != nil {
			return sum, err
		}
		sum.Found++
		metrics.PosterFetches.WithLabelValues("found").Inc()
	}

	s.log.Info("poster backfill finished",
		zap.Int("checked", sum.Checked), zap.Int("found", sum.Found),
		zap.Int("missing", sum.Missing), zap.Int("failed", sum.Failed))
	return sum, nil
}
