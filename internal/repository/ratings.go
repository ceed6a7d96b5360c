package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/jackc/pgx/v5"
)

const ratingColumns = `id, user_id, movie_id, rating, rated_at`

func collectRatings(rows pgx.Rows) ([]domain.Rating, error) {
	defer rows.Close()

	var items []domain.Rating
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.MovieID, &rt.Value, &rt.RatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		items = append(items, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over ratings: %w", err)
	}
	return items, nil
}

// GetUserRatings returns the user's (movie, rating) pairs ordered by movie id.
func (r *Repository) GetUserRatings(ctx context.Context, userID int64) ([]domain.UserRating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT movie_id, rating FROM ratings WHERE user_id = $1 ORDER BY movie_id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query ratings for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []domain.UserRating
	for rows.Next() {
		var ur domain.UserRating
		if err := rows.Scan(&ur.MovieID, &ur.Value); err != nil {
			return nil, fmt.Errorf("scan user rating: %w", err)
		}
		items = append(items, ur)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over user ratings: %w", err)
	}
	return items, nil
}

// UpsertRating records the user's rating for a movie, replacing any earlier one.
func (r *Repository) UpsertRating(ctx context.Context, userID, movieID int64, value float64) (*domain.Rating, error) {
	rt := &domain.Rating{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET rating = EXCLUDED.rating, rated_at = NOW()
		RETURNING `+ratingColumns,
		userID, movieID, value,
	).Scan(&rt.ID, &rt.UserID, &rt.MovieID, &rt.Value, &rt.RatedAt)

	if err != nil {
		return nil, fmt.Errorf("upsert rating user=%d movie=%d: %w", userID, movieID, err)
	}
	return rt, nil
}

func (r *Repository) GetUserMovieRating(ctx context.Context, userID, movieID int64) (*domain.Rating, error) {
	rt := &domain.Rating{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = $1 AND movie_id = $2`, userID, movieID,
	).Scan(&rt.ID, &rt.UserID, &rt.MovieID, &rt.Value, &rt.RatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, fmt.Errorf("query rating user=%d movie=%d: %w", userID, movieID, err)
	}
	return rt, nil
}

// Own ratings, newest first
func (r *Repository) ListUserRatings(ctx context.Context, userID int64) ([]domain.Rating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = $1 ORDER BY rated_at DESC, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ratings for user %d: %w", userID, err)
	}
	return collectRatings(rows)
}

func (r *Repository) ListMovieRatings(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE movie_id = $1 ORDER BY rated_at DESC, id`, movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ratings for movie %d: %w", movieID, err)
	}
	return collectRatings(rows)
}

func (r *Repository) ListAllRatings(ctx context.Context, page, limit int) ([]domain.Rating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ratingColumns+` FROM ratings ORDER BY id LIMIT $1 OFFSET $2`, limit, offset(page, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list ratings for page %d: %w", page, err)
	}
	return collectRatings(rows)
}

func (r *Repository) DeleteRating(ctx context.Context, userID, movieID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM ratings WHERE user_id = $1 AND movie_id = $2`, userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("delete rating user=%d movie=%d: %w", userID, movieID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}

// DeleteRatingByID removes a rating and reports whose it was, so the caller can
// invalidate that user's cache.
func (r *Repository) DeleteRatingByID(ctx context.Context, ratingID int64) (int64, error) {
	var userID int64
	err := r.pool.QueryRow(ctx,
		`DELETE FROM ratings WHERE id = $1 RETURNING user_id`, ratingID,
	).Scan(&userID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrRatingNotFound
		}
		return 0, fmt.Errorf("delete rating %d: %w", ratingID, err)
	}
	return userID, nil
}

// InsertRatings bulk-loads ratings in one batch. Rows naming an unknown user or
// movie are skipped; existing (user, movie) pairs are overwritten. It returns
// how many rows were written.
func (r *Repository) InsertRatings(ctx context.Context, ratings []domain.ImportedRating) (int, error) {
	batch := &pgx.Batch{}
	for _, in := range ratings {
		batch.Queue(
			`INSERT INTO ratings (user_id, movie_id, rating, rated_at)
			SELECT $1::bigint, $2::bigint, $3::double precision, $4::timestamptz
			WHERE EXISTS (SELECT 1 FROM users WHERE id = $1)
			  AND EXISTS (SELECT 1 FROM movies WHERE id = $2)
			ON CONFLICT (user_id, movie_id)
			DO UPDATE SET rating = EXCLUDED.rating, rated_at = EXCLUDED.rated_at`,
			in.UserID, in.MovieID, in.Value, in.RatedAt,
		)
	}
	return r.sendCountingBatch(ctx, batch, "insert ratings")
}
