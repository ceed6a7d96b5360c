package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/cache"
	"github.com/actuallystonmai/movie-recommender/internal/handler"
	"github.com/actuallystonmai/movie-recommender/internal/model"
	"github.com/actuallystonmai/movie-recommender/internal/recommend"
	"github.com/actuallystonmai/movie-recommender/internal/repository"
	"github.com/actuallystonmai/movie-recommender/internal/router"
	"github.com/actuallystonmai/movie-recommender/internal/service"
	"github.com/actuallystonmai/movie-recommender/internal/tmdb"
	"github.com/actuallystonmai/movie-recommender/seeds"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, log := a.cfg, a.log

	// ------------ Run Migrations ---------------
	if err := migrateUp(ctx, a); err != nil {
		return err
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	log.Info("connected to Redis")

	// ------------ Wiring ---------------
	repo := repository.NewRepository(a.pool)
	recCache := cache.NewCache(rdb, cfg.CacheTTL)
	sessions := cache.NewSessionStore(rdb, cfg.SessionTTL)
	loader := model.NewLoader(cfg.SimilarityModelPath)
	engine := recommend.NewEngine(recommend.Config{
		ColdStartThreshold: cfg.ColdStartThreshold,
		PopularityQuantile: cfg.PopularityQuantile,
		GenreOversample:    cfg.GenreOversample,
	}, repo, loader, log)

	deps := service.Deps{
		Store:    repo,
		Cache:    recCache,
		Sessions: sessions,
		Engine:   engine,
		Logger:   log,
	}
	if cfg.TMDBAPIKey != "" {
		deps.Posters = tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, log)
	}
	svc := service.NewService(deps)

	// Warm the similarity model; failure only degrades recommendations.
	if _, err := loader.Load(ctx); err != nil {
		log.Warn("similarity model not loaded, serving popularity fallback", zap.Error(err))
	}

	// ------------ Dev bootstrap ---------------
	if cfg.DevMode {
		if err := checkSeed(ctx, a); err != nil {
			return err
		}
		if err := svc.EnsureDefaultAdmin(ctx, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword); err != nil {
			return err
		}
	}

	// ---------------- Server --------------------
	h := handler.NewHandler(svc, log, !cfg.DevMode)
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(h, log, router.Options{
			LoginRateLimit: cfg.LoginRateLimit,
			Checks: map[string]router.Check{
				"postgres": repo.Ping,
				"redis":    recCache.Ping,
			},
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func checkSeed(ctx context.Context, a *app) error {
	var count int
	if err := a.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		a.log.Info("database already seeded, skipping", zap.Int("users", count))
		return nil
	}
	return seeds.Setup(ctx, a.pool, a.log)
}
