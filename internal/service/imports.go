package service

import (
	"context"
	"io"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/importer"
	"go.uber.org/zap"
)

// ImportMovies loads a movies CSV. Invalid rows and ids already in the catalog are skipped.
func (s *Service) ImportMovies(ctx context.Context, r io.Reader) (domain.ImportSummary, error) {
	movies, rowErrs, err := importer.ParseMovies(r)
	if err != nil {
		return domain.ImportSummary{}, err
	}
	s.logSkipped("movies", rowErrs)

	written, err := s.store.InsertMovies(ctx, movies)
	if err != nil {
		return domain.ImportSummary{}, err
	}
	sum := domain.ImportSummary{
		Read:    len(movies) + len(rowErrs),
		Written: written,
		Skipped: len(movies) + len(rowErrs) - written,
	}
	s.log.Info("movies imported", zap.Int("read", sum.Read), zap.Int("written", sum.Written), zap.Int("skipped", sum.Skipped))
	return sum, nil
}

// ImportRatings loads a ratings CSV. Rows for unknown users or movies are skipped;
// every user whose ratings changed has their cached recommendations dropped.
func (s *Service) ImportRatings(ctx context.Context, r io.Reader) (domain.ImportSummary, error) {
	ratings, rowErrs, err := importer.ParseRatings(r, time.Now().UTC())
	if err != nil {
		return domain.ImportSummary{}, err
	}
	s.logSkipped("ratings", rowErrs)

	written, err := s.store.InsertRatings(ctx, ratings)
	if err != nil {
		return domain.ImportSummary{}, err
	}

	seen := make(map[int64]struct{})
	for _, rt := range ratings {
		if _, ok := seen[rt.UserID]; ok {
			continue
		}
		seen[rt.UserID] = struct{}{}
		s.invalidate(ctx, rt.UserID)
	}

	sum := domain.ImportSummary{
		Read:    len(ratings) + len(rowErrs),
		Written: written,
		Skipped: len(ratings) + len(rowErrs) - written,
	}
	s.log.Info("ratings imported", zap.Int("read", sum.Read), zap.Int("written", sum.Written), zap.Int("skipped", sum.Skipped))
	return sum, nil
}

func (s *Service) logSkipped(kind string, rowErrs []importer.RowError) {
	for _, e := range rowErrs {
		s.log.Debug("skipping row", zap.String("file", kind), zap.Int("line", e.Line), zap.Error(e.Err))
	}
}
