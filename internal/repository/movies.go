package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/jackc/pgx/v5"
)

const movieColumns = `m.id, m.title, COALESCE(m.genres, ''), COALESCE(m.overview, ''),
	COALESCE(to_char(m.release_date, 'YYYY-MM-DD'), ''), m.runtime, m.popularity,
	m.vote_average, m.vote_count, m.language, COALESCE(m.poster_path, ''), m.is_active,
	m.created_at, m.updated_at`

func scanMovie(row pgx.Row, m *domain.Movie) error {
	return row.Scan(&m.ID, &m.Title, &m.Genres, &m.Overview, &m.ReleaseDate, &m.Runtime,
		&m.Popularity, &m.VoteAverage, &m.VoteCount, &m.Language, &m.PosterPath, &m.IsActive,
		&m.CreatedAt, &m.UpdatedAt)
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	defer rows.Close()

	var items []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over movies: %w", err)
	}
	return items, nil
}

// Get single movie, active or not
func (r *Repository) GetMovieByID(ctx context.Context, movieID int64) (*domain.Movie, error) {
	m := &domain.Movie{}
	err := scanMovie(r.pool.QueryRow(ctx,
		`SELECT `+movieColumns+` FROM movies m WHERE m.id = $1`, movieID,
	), m)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("query movie id=%d: %w", movieID, err)
	}
	return m, nil
}

// GetMoviesByID returns the movies that exist among ids, in no particular order.
func (r *Repository) GetMoviesByID(ctx context.Context, ids []int64) ([]domain.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+` FROM movies m WHERE m.id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query movies by id: %w", err)
	}
	return collectMovies(rows)
}

// GetActiveMovies lists active movies ordered by id, optionally restricted to a
// case-insensitive genre substring.
func (r *Repository) GetActiveMovies(ctx context.Context, genre string) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+`
		FROM movies m
		WHERE m.is_active
		  AND ($1 = '' OR m.genres ILIKE '%' || $1 || '%')
		ORDER BY m.id`, genre,
	)
	if err != nil {
		return nil, fmt.Errorf("query active movies genre=%q: %w", genre, err)
	}
	return collectMovies(rows)
}

// Active movies for page, ordered by title
func (r *Repository) ListMovies(ctx context.Context, page, limit int) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+`
		FROM movies m
		WHERE m.is_active
		ORDER BY m.title, m.id
		LIMIT $1 OFFSET $2`, limit, offset(page, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query movies for page %d: %w", page, err)
	}
	return collectMovies(rows)
}

// All movies including inactive ones, for admins
func (r *Repository) ListAllMovies(ctx context.Context, page, limit int) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+` FROM movies m ORDER BY m.id LIMIT $1 OFFSET $2`,
		limit, offset(page, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query all movies for page %d: %w", page, err)
	}
	return collectMovies(rows)
}

func (r *Repository) SearchMovies(ctx context.Context, query string, limit int) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+`
		FROM movies m
		WHERE m.is_active AND m.title ILIKE '%' || $1 || '%'
		ORDER BY m.popularity DESC, m.id
		LIMIT $2`, query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search movies %q: %w", query, err)
	}
	return collectMovies(rows)
}

// GetMovieDetails adds the mean user rating; movies nobody rated fall back to vote_average.
func (r *Repository) GetMovieDetails(ctx context.Context, movieID int64) (*domain.MovieDetails, error) {
	d := &domain.MovieDetails{}
	m := &d.Movie
	err := r.pool.QueryRow(ctx,
		`SELECT `+movieColumns+`, COALESCE(AVG(r.rating), m.vote_average)
		FROM movies m
		LEFT JOIN ratings r ON r.movie_id = m.id
		WHERE m.id = $1
		GROUP BY m.id`, movieID,
	).Scan(&m.ID, &m.Title, &m.Genres, &m.Overview, &m.ReleaseDate, &m.Runtime,
		&m.Popularity, &m.VoteAverage, &m.VoteCount, &m.Language, &m.PosterPath, &m.IsActive,
		&m.CreatedAt, &m.UpdatedAt, &d.AvgRating)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("query movie details id=%d: %w", movieID, err)
	}
	return d, nil
}

func (r *Repository) CreateMovie(ctx context.Context, in domain.NewMovie) (*domain.Movie, error) {
	m := &domain.Movie{}
	err := scanMovie(r.pool.QueryRow(ctx,
		`INSERT INTO movies AS m (id, title, genres, overview, release_date, runtime, popularity,
			vote_average, vote_count, language, poster_path)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, '')::date, $6, $7, $8, $9, $10, $11)
		RETURNING `+movieColumns,
		in.ID, in.Title, in.Genres, in.Overview, in.ReleaseDate, in.Runtime, in.Popularity,
		in.VoteAverage, in.VoteCount, languageOrDefault(in.Language), posterOrPlaceholder(in.PosterPath),
	), m)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrMovieExists
		}
		return nil, fmt.Errorf("insert movie id=%d: %w", in.ID, err)
	}
	return m, nil
}

// UpdateMovie writes only the supplied fields.
func (r *Repository) UpdateMovie(ctx context.Context, movieID int64, u domain.MovieUpdate) (*domain.Movie, error) {
	if u.Empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.Genres != nil {
		add("genres", *u.Genres)
	}
	if u.Overview != nil {
		add("overview", *u.Overview)
	}
	if u.ReleaseDate != nil {
		args = append(args, *u.ReleaseDate)
		sets = append(sets, fmt.Sprintf("release_date = NULLIF($%d, '')::date", len(args)))
	}
	if u.Runtime != nil {
		add("runtime", *u.Runtime)
	}
	if u.Popularity != nil {
		add("popularity", *u.Popularity)
	}
	if u.VoteAverage != nil {
		add("vote_average", *u.VoteAverage)
	}
	if u.VoteCount != nil {
		add("vote_count", *u.VoteCount)
	}
	if u.Language != nil {
		add("language", *u.Language)
	}
	if u.PosterPath != nil {
		add("poster_path", *u.PosterPath)
	}
	args = append(args, movieID)

	query := fmt.Sprintf(`UPDATE movies AS m SET %s, updated_at = NOW() WHERE m.id = $%d RETURNING `+movieColumns,
		strings.Join(sets, ", "), len(args))

	m := &domain.Movie{}
	if err := scanMovie(r.pool.QueryRow(ctx, query, args...), m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("update movie id=%d: %w", movieID, err)
	}
	return m, nil
}

func (r *Repository) SetMovieActive(ctx context.Context, movieID int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE movies SET is_active = $2, updated_at = NOW() WHERE id = $1`, movieID, active,
	)
	if err != nil {
		return fmt.Errorf("set movie %d active=%t: %w", movieID, active, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (r *Repository) DeleteMovie(ctx context.Context, movieID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, movieID)
	if err != nil {
		return fmt.Errorf("delete movie %d: %w", movieID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

// InsertMovies bulk-loads movies in one batch; existing ids are left untouched.
// It returns how many rows were inserted.
func (r *Repository) InsertMovies(ctx context.Context, movies []domain.NewMovie) (int, error) {
	batch := &pgx.Batch{}
	for _, in := range movies {
		batch.Queue(
			`INSERT INTO movies (id, title, genres, overview, release_date, runtime, popularity,
				vote_average, vote_count, language, poster_path)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, '')::date, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING`,
			in.ID, in.Title, in.Genres, in.Overview, in.ReleaseDate, in.Runtime, in.Popularity,
			in.VoteAverage, in.VoteCount, languageOrDefault(in.Language), posterOrPlaceholder(in.PosterPath),
		)
	}
	return r.sendCountingBatch(ctx, batch, "insert movies")
}

// MoviesMissingPosters lists movies whose poster is empty or the placeholder.
func (r *Repository) MoviesMissingPosters(ctx context.Context, limit int) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+`
		FROM movies m
		WHERE m.poster_path IS NULL OR m.poster_path = '' OR m.poster_path = $1
		ORDER BY m.id
		LIMIT $2`, domain.PlaceholderPoster, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query movies missing posters: %w", err)
	}
	return collectMovies(rows)
}

func (r *Repository) UpdatePoster(ctx context.Context, movieID int64, posterURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE movies SET poster_path = $2, updated_at = NOW() WHERE id = $1`, movieID, posterURL,
	)
	if err != nil {
		return fmt.Errorf("update poster for movie %d: %w", movieID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (r *Repository) sendCountingBatch(ctx context.Context, batch *pgx.Batch, op string) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("%s row %d: %w", op, i, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func languageOrDefault(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}

func posterOrPlaceholder(path string) string {
	if path == "" {
		return domain.PlaceholderPoster
	}
	return path
}
