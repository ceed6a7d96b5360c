package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/model"
)

// CatalogGateway is the read side of the movie catalog consumed by the engine.
// Implementations must be safe for concurrent use.
type CatalogGateway interface {
	// GetUserRatings returns the user's ratings in a stable order.
	GetUserRatings(ctx context.Context, userID int64) ([]domain.UserRating, error)
	// GetMovieByID returns domain.ErrMovieNotFound for unknown ids.
	GetMovieByID(ctx context.Context, movieID int64) (*domain.Movie, error)
	// GetMoviesByID silently omits ids that do not resolve.
	GetMoviesByID(ctx context.Context, ids []int64) ([]domain.Movie, error)
	// GetActiveMovies returns active movies, filtered to a genre substring when genre is non-empty.
	GetActiveMovies(ctx context.Context, genre string) ([]domain.Movie, error)
}

// SimilaritySource hands out the shared similarity handle.
type SimilaritySource interface {
	Load(ctx context.Context) (*model.Similarity, error)
}

// catalogErr tags a gateway failure as domain.ErrCatalogUnavailable while keeping
// the cause (including context cancellation) visible to errors.Is.
func catalogErr(op string, err error) error {
	if errors.Is(err, domain.ErrCatalogUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrCatalogUnavailable, err)
}
