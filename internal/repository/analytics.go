package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// Top-rated lists only movies with more than this many ratings.
const minRatingsForTopRated = 5

func (r *Repository) UserRatingHistory(ctx context.Context, userID int64) ([]domain.RatedMovie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.title, r.rating, COALESCE(m.genres, ''),
			COALESCE(to_char(m.release_date, 'YYYY-MM-DD'), '')
		FROM ratings r
		JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = $1
		ORDER BY r.rating DESC, m.id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query rating history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []domain.RatedMovie
	for rows.Next() {
		var rm domain.RatedMovie
		if err := rows.Scan(&rm.MovieID, &rm.Title, &rm.Rating, &rm.Genres, &rm.ReleaseDate); err != nil {
			return nil, fmt.Errorf("scan rated movie: %w", err)
		}
		items = append(items, rm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating history: %w", err)
	}
	return items, nil
}

// TopRatedMovies ranks movies rated more than five times by mean user rating.
func (r *Repository) TopRatedMovies(ctx context.Context, limit int) ([]domain.TopRatedMovie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.title, AVG(r.rating) AS avg_rating, COUNT(r.id) AS total
		FROM movies m
		JOIN ratings r ON r.movie_id = m.id
		GROUP BY m.id, m.title
		HAVING COUNT(r.id) > $1
		ORDER BY avg_rating DESC, total DESC, m.id
		LIMIT $2`, minRatingsForTopRated, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top rated movies: %w", err)
	}
	defer rows.Close()

	var items []domain.TopRatedMovie
	for rows.Next() {
		var t domain.TopRatedMovie
		if err := rows.Scan(&t.MovieID, &t.Title, &t.AvgRating, &t.TotalRatings); err != nil {
			return nil, fmt.Errorf("scan top rated movie: %w", err)
		}
		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top rated movies: %w", err)
	}
	return items, nil
}

func (r *Repository) MostActiveUsers(ctx context.Context, limit int) ([]domain.ActiveUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.email, COUNT(r.id) AS total
		FROM users u
		JOIN ratings r ON r.user_id = u.id
		GROUP BY u.id, u.email
		ORDER BY total DESC, u.id
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query most active users: %w", err)
	}
	defer rows.Close()

	var items []domain.ActiveUser
	for rows.Next() {
		var a domain.ActiveUser
		if err := rows.Scan(&a.UserID, &a.Email, &a.RatingCount); err != nil {
			return nil, fmt.Errorf("scan active user: %w", err)
		}
		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active users: %w", err)
	}
	return items, nil
}

func (r *Repository) RatingDistribution(ctx context.Context) ([]domain.RatingBucket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rating, COUNT(*) FROM ratings GROUP BY rating ORDER BY rating`,
	)
	if err != nil {
		return nil, fmt.Errorf("query rating distribution: %w", err)
	}
	defer rows.Close()

	var items []domain.RatingBucket
	for rows.Next() {
		var b domain.RatingBucket
		if err := rows.Scan(&b.Rating, &b.Count); err != nil {
			return nil, fmt.Errorf("scan rating bucket: %w", err)
		}
		items = append(items, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating distribution: %w", err)
	}
	return items, nil
}
