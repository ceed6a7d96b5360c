package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
	"go.uber.org/zap"
)

type Config struct {
	// ColdStartThreshold is the minimum number of ratings for personalized results.
	ColdStartThreshold int
	// PopularityQuantile picks M, the vote count a movie needs to be trusted.
	PopularityQuantile float64
	// GenreOversample is how many personalized candidates are drawn before genre filtering.
	GenreOversample int
}

func DefaultConfig() Config {
	return Config{
		ColdStartThreshold: 3,
		PopularityQuantile: 0.80,
		GenreOversample:    50,
	}
}

// Result is a ranked list plus the ranking that produced it.
type Result struct {
	Movies []domain.RankedMovie
	Source domain.RecommendationSource
}

// Engine produces ranked movie lists. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	cfg        Config
	catalog    CatalogGateway
	models     SimilaritySource
	popularity *PopularityRanker
	trending   *TrendingRanker
	log        *zap.Logger
}

func NewEngine(cfg Config, catalog CatalogGateway, models SimilaritySource, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	popularity := NewPopularityRanker(catalog, cfg.PopularityQuantile)
	return &Engine{
		cfg:        cfg,
		catalog:    catalog,
		models:     models,
		popularity: popularity,
		trending:   NewTrendingRanker(catalog, popularity),
		log:        log.With(zap.String("component", "recommend")),
	}
}

// RecommendForUser ranks movies the user has not rated by
// sum(similarity(seed, candidate) * rating(seed)) over the user's rated seeds.
// Users below the cold-start threshold, an unavailable model, or an empty
// candidate set all yield the popularity ranking instead.
func (e *Engine) RecommendForUser(ctx context.Context, userID int64, k int) (Result, error) {
	defer observe("recommend_for_user", time.Now())

	ratings, err := e.catalog.GetUserRatings(ctx, userID)
	if err != nil {
		return Result{}, catalogErr(fmt.Sprintf("fetch ratings for user %d", userID), err)
	}
	if len(ratings) < e.cfg.ColdStartThreshold {
		return e.fallback(ctx, "cold_start", k)
	}

	sim, err := e.models.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrModelUnavailable) {
			return Result{}, err
		}
		e.log.Warn("similarity model unavailable, serving popular movies",
			zap.Int64("user_id", userID), zap.Error(err))
		return e.fallback(ctx, "model_unavailable", k)
	}

	rated := make(map[int64]struct{}, len(ratings))
	for _, r := range ratings {
		rated[r.MovieID] = struct{}{}
	}

	acc := NewScoreAccumulator()
	for _, r := range ratings {
		if !sim.Contains(r.MovieID) {
			continue
		}
		for _, n := range sim.Neighbors(r.MovieID) {
			if _, seen := rated[n.MovieID]; seen {
				continue
			}
			acc.Add(n.MovieID, n.Score*r.Value)
		}
	}
	if acc.Len() == 0 {
		return e.fallback(ctx, "no_candidates", k)
	}

	movies, err := e.resolve(ctx, acc.Top(k))
	if err != nil {
		return Result{}, err
	}
	return e.served("recommend_for_user", Result{Movies: movies, Source: domain.SourcePersonalized}), nil
}

// SimilarMovies returns the k nearest neighbors of movieID, never movieID itself.
// A movie the model does not know is domain.ErrNotFound.
func (e *Engine) SimilarMovies(ctx context.Context, movieID int64, k int) (Result, error) {
	defer observe("similar_movies", time.Now())

	sim, err := e.models.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrModelUnavailable) {
			return Result{}, err
		}
		e.log.Warn("similarity model unavailable, serving popular movies",
			zap.Int64("movie_id", movieID), zap.Error(err))
		return e.fallback(ctx, "model_unavailable", k)
	}
	if !sim.Contains(movieID) {
		return Result{}, fmt.Errorf("movie %d: %w", movieID, domain.ErrNotFound)
	}

	acc := NewScoreAccumulator()
	for _, n := range sim.Neighbors(movieID) {
		if n.MovieID == movieID {
			continue
		}
		acc.Add(n.MovieID, n.Score)
	}

	movies, err := e.resolve(ctx, acc.Top(k))
	if err != nil {
		return Result{}, err
	}
	return e.served("similar_movies", Result{Movies: movies, Source: domain.SourceSimilarity}), nil
}

// RecommendByGenre filters an oversampled personalized list to genre. It never
// backfills, so fewer than k movies may come back.
func (e *Engine) RecommendByGenre(ctx context.Context, userID int64, genre string, k int) (Result, error) {
	res, err := e.RecommendForUser(ctx, userID, e.cfg.GenreOversample)
	if err != nil {
		return Result{}, err
	}
	res.Movies = FilterByGenre(res.Movies, genre, k)
	return res, nil
}

// PopularMovies ranks active movies, optionally within a genre, by weighted rating.
func (e *Engine) PopularMovies(ctx context.Context, k int, genre string) (Result, error) {
	defer observe("popular_movies", time.Now())

	movies, err := e.popularity.TopK(ctx, k, genre)
	if err != nil {
		return Result{}, err
	}
	return e.served("popular_movies", Result{Movies: movies, Source: domain.SourcePopularity}), nil
}

// TrendingMovies ranks active movies by release date, newest first.
func (e *Engine) TrendingMovies(ctx context.Context, k int) (Result, error) {
	defer observe("trending_movies", time.Now())

	movies, source, err := e.trending.TopK(ctx, k)
	if err != nil {
		return Result{}, err
	}
	return e.served("trending_movies", Result{Movies: movies, Source: source}), nil
}

func (e *Engine) fallback(ctx context.Context, reason string, k int) (Result, error) {
	metrics.RecommendationFallbacks.WithLabelValues(reason).Inc()
	e.log.Debug("falling back to popularity ranking", zap.String("reason", reason))
	return e.PopularMovies(ctx, k, "")
}

// resolve fetches catalog records for ranked ids, keeping rank order and
// dropping ids the catalog no longer knows.
func (e *Engine) resolve(ctx context.Context, ranked []scoredID) ([]domain.RankedMovie, error) {
	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	movies, err := e.catalog.GetMoviesByID(ctx, ids)
	if err != nil {
		return nil, catalogErr("resolve ranked movies", err)
	}

	byID := make(map[int64]domain.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	out := make([]domain.RankedMovie, 0, len(ranked))
	for _, r := range ranked {
		m, ok := byID[r.ID]
		if !ok {
			continue
		}
		out = append(out, domain.RankedMovie{Movie: m, Score: r.Score})
	}
	if dropped := len(ranked) - len(out); dropped > 0 {
		e.log.Debug("ranked movies missing from catalog", zap.Int("dropped", dropped))
	}
	return out, nil
}

func (e *Engine) served(op string, res Result) Result {
	metrics.RecommendationsServed.WithLabelValues(op, string(res.Source)).Inc()
	return res
}

func observe(op string, start time.Time) {
	metrics.RecommendationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
