package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/jackc/pgx/v5"
)

// AddToWatchlist is a no-op when the movie is already listed. It reports whether a row was added.
func (r *Repository) AddToWatchlist(ctx context.Context, userID, movieID int64, status domain.WatchStatus) (bool, error) {
	if status == "" {
		status = domain.StatusNotWatched
	}
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO watchlist (user_id, movie_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO NOTHING`,
		userID, movieID, status,
	)
	if err != nil {
		return false, fmt.Errorf("add movie %d to watchlist of user %d: %w", movieID, userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) UpdateWatchStatus(ctx context.Context, userID, movieID int64, status domain.WatchStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE watchlist SET status = $3 WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID, status,
	)
	if err != nil {
		return fmt.Errorf("update watch status user=%d movie=%d: %w", userID, movieID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWatchlistEntryNotFound
	}
	return nil
}

func (r *Repository) RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM watchlist WHERE user_id = $1 AND movie_id = $2`, userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("remove movie %d from watchlist of user %d: %w", movieID, userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWatchlistEntryNotFound
	}
	return nil
}

// Watchlist with movie details, most recent first
func (r *Repository) ListWatchlist(ctx context.Context, userID int64) ([]domain.WatchlistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.user_id, '', w.movie_id, m.title, COALESCE(m.genres, ''),
			COALESCE(m.poster_path, ''), w.status, w.added_at
		FROM watchlist w
		JOIN movies m ON m.id = w.movie_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC, w.id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get watchlist for user %d: %w", userID, err)
	}
	return collectWatchlist(rows)
}

func (r *Repository) ListAllWatchlists(ctx context.Context, page, limit int) ([]domain.WatchlistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.user_id, u.email, w.movie_id, m.title, COALESCE(m.genres, ''),
			COALESCE(m.poster_path, ''), w.status, w.added_at
		FROM watchlist w
		JOIN movies m ON m.id = w.movie_id
		JOIN users u ON u.id = w.user_id
		ORDER BY w.id
		LIMIT $1 OFFSET $2`, limit, offset(page, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("get watchlists for page %d: %w", page, err)
	}
	return collectWatchlist(rows)
}

func collectWatchlist(rows pgx.Rows) ([]domain.WatchlistEntry, error) {
	defer rows.Close()

	var items []domain.WatchlistEntry
	for rows.Next() {
		var e domain.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.MovieID, &e.Title, &e.Genres,
			&e.PosterPath, &e.Status, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over watchlist entries: %w", err)
	}
	return items, nil
}
