package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/config"
	"github.com/actuallystonmai/movie-recommender/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "movie-recommender",
	Short: "Movie recommendation service",
	Long: `movie-recommender serves personalized, similar, popular and trending movie
recommendations over HTTP, and ships the maintenance commands that prepare its data.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(fetchPostersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs: configuration, a logger and a ready database pool.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	pool *pgxpool.Pool
}

func newApp(ctx context.Context) (*app, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFile)

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := waitForDB(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	log.Info("connected to PostgreSQL")

	return &app{cfg: cfg, log: log, pool: pool}, nil
}

func (a *app) Close() {
	a.pool.Close()
	_ = a.log.Sync()
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Info("waiting for database", zap.Int("attempt", i+1), zap.Int("max_attempts", 30))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, a *app) error {
	return runMigration(ctx, a, "create_tables.down.sql")
}

func migrateUp(ctx context.Context, a *app) error {
	return runMigration(ctx, a, "create_tables.up.sql")
}

func runMigration(ctx context.Context, a *app, name string) error {
	path := filepath.Join(a.cfg.MigrationsDir, name)
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := a.pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration %s: %w", name, err)
	}
	a.log.Info("migration applied", zap.String("file", path))
	return nil
}
