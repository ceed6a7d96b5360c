package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/actuallystonmai/movie-recommender/internal/cache"
	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/repository"
	"github.com/actuallystonmai/movie-recommender/internal/service"
	"github.com/actuallystonmai/movie-recommender/internal/tmdb"
	"github.com/actuallystonmai/movie-recommender/seeds"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or drop the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create tables and indexes",
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		return migrateUp(ctx, a)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop all tables",
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		return migrateDown(ctx, a)
	}),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with deterministic demo data",
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		if err := migrateUp(ctx, a); err != nil {
			return err
		}
		if err := seeds.Setup(ctx, a.pool, a.log); err != nil {
			return err
		}
		fmt.Printf("seeded demo data; every user's password is %q\n", seeds.DemoPassword)
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load movies or ratings from a CSV file",
}

var importMoviesCmd = &cobra.Command{
	Use:   "movies <file>",
	Short: "Import a movies CSV",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		return importFile(ctx, a, args[0], (*service.Service).ImportMovies)
	}),
}

var importRatingsCmd = &cobra.Command{
	Use:   "ratings <file>",
	Short: "Import a ratings CSV; rows for unknown users or movies are skipped",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		return importFile(ctx, a, args[0], (*service.Service).ImportRatings)
	}),
}

var fetchPostersCmd = &cobra.Command{
	Use:   "fetch-posters",
	Short: "Fill missing poster paths from TMDB",
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		if a.cfg.TMDBAPIKey == "" {
			return fmt.Errorf("TMDB_API_KEY is not set")
		}
		svc := service.NewService(service.Deps{
			Store:   repository.NewRepository(a.pool),
			Posters: tmdb.NewClient(a.cfg.TMDBBaseURL, a.cfg.TMDBAPIKey, a.log),
			Logger:  a.log,
		})
		sum, err := svc.FetchPosters(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("checked %d movies: %d found, %d missing, %d failed\n", sum.Checked, sum.Found, sum.Missing, sum.Failed)
		return nil
	}),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	importCmd.AddCommand(importMoviesCmd, importRatingsCmd)
}

// withApp adapts a command body that needs a connected app.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(ctx, a, args)
	}
}

type importFunc func(*service.Service, context.Context, io.Reader) (domain.ImportSummary, error)

func importFile(ctx context.Context, a *app, path string, load importFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// Ratings imports invalidate cached recommendations, so a cache is wired when redis is reachable.
	deps := service.Deps{Store: repository.NewRepository(a.pool), Cache: noopCache{}, Logger: a.log}
	if opts, err := redis.ParseURL(a.cfg.RedisURL); err == nil {
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err == nil {
			deps.Cache = cache.NewCache(rdb, a.cfg.CacheTTL)
		} else {
			a.log.Warn("redis unreachable, cached recommendations will not be invalidated", zap.Error(err))
		}
	}

	sum, err := load(service.NewService(deps), ctx, f)
	if err != nil {
		return err
	}
	fmt.Printf("read %d rows: %d written, %d skipped\n", sum.Read, sum.Written, sum.Skipped)
	return nil
}

// noopCache stands in when redis is unavailable to a maintenance command.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, userID int64, k int, genre string) (*domain.RecommendationResult, error) {
	return nil, nil
}

func (noopCache) Set(ctx context.Context, userID int64, k int, genre string, res *domain.RecommendationResult) error {
	return nil
}

func (noopCache) ClearUserCache(ctx context.Context, userID int64) error { return nil }
