package service

import (
	"context"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/recommend"
	"go.uber.org/zap"
)

const (
	defaultK         = 10
	maxK             = 50
	batchConcurrency = 10
	batchRecK        = 10
	posterBatchSize  = 500
)

// Store is the persistence the service needs; *repository.Repository implements it.
type Store interface {
	recommend.CatalogGateway

	CreateUser(ctx context.Context, email, name, passwordHash string, role domain.Role) (*domain.User, error)
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, passwordHash *string) (*domain.User, error)
	SetUserRole(ctx context.Context, userID int64, role domain.Role) error
	SetUserActive(ctx context.Context, userID int64, active bool) error
	GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error)
	CountUsers(ctx context.Context) (int, error)

	ListMovies(ctx context.Context, page, limit int) ([]domain.Movie, error)
	ListAllMovies(ctx context.Context, page, limit int) ([]domain.Movie, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]domain.Movie, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*domain.MovieDetails, error)
	CreateMovie(ctx context.Context, in domain.NewMovie) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, movieID int64, u domain.MovieUpdate) (*domain.Movie, error)
	SetMovieActive(ctx context.Context, movieID int64, active bool) error
	DeleteMovie(ctx context.Context, movieID int64) error
	InsertMovies(ctx context.Context, movies []domain.NewMovie) (int, error)
	MoviesMissingPosters(ctx context.Context, limit int) ([]domain.Movie, error)
	UpdatePoster(ctx context.Context, movieID int64, posterURL string) error

	UpsertRating(ctx context.Context, userID, movieID int64, value float64) (*domain.Rating, error)
	GetUserMovieRating(ctx context.Context, userID, movieID int64) (*domain.Rating, error)
	ListUserRatings(ctx context.Context, userID int64) ([]domain.Rating, error)
	ListMovieRatings(ctx context.Context, movieID int64) ([]domain.Rating, error)
	ListAllRatings(ctx context.Context, page, limit int) ([]domain.Rating, error)
	DeleteRating(ctx context.Context, userID, movieID int64) error
	DeleteRatingByID(ctx context.Context, ratingID int64) (int64, error)
	InsertRatings(ctx context.Context, ratings []domain.ImportedRating) (int, error)

	AddToWatchlist(ctx context.Context, userID, movieID int64, status domain.WatchStatus) (bool, error)
	UpdateWatchStatus(ctx context.Context, userID, movieID int64, status domain.WatchStatus) error
	RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error
	ListWatchlist(ctx context.Context, userID int64) ([]domain.WatchlistEntry, error)
	ListAllWatchlists(ctx context.Context, page, limit int) ([]domain.WatchlistEntry, error)

	UserRatingHistory(ctx context.Context, userID int64) ([]domain.RatedMovie, error)
	TopRatedMovies(ctx context.Context, limit int) ([]domain.TopRatedMovie, error)
	MostActiveUsers(ctx context.Context, limit int) ([]domain.ActiveUser, error)
	RatingDistribution(ctx context.Context) ([]domain.RatingBucket, error)
}

// RecommendationCache is the per-user cache of ranked lists.
type RecommendationCache interface {
	Get(ctx context.Context, userID int64, k int, genre string) (*domain.RecommendationResult, error)
	Set(ctx context.Context, userID int64, k int, genre string, res *domain.RecommendationResult) error
	ClearUserCache(ctx context.Context, userID int64) error
}

type SessionStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)
	Get(ctx context.Context, token string) (*domain.Session, error)
	Destroy(ctx context.Context, sess *domain.Session) error
	DestroyUser(ctx context.Context, userID int64) error
}

// Recommender is implemented by *recommend.Engine.
type Recommender interface {
	RecommendForUser(ctx context.Context, userID int64, k int) (recommend.Result, error)
	RecommendByGenre(ctx context.Context, userID int64, genre string, k int) (recommend.Result, error)
	SimilarMovies(ctx context.Context, movieID int64, k int) (recommend.Result, error)
	PopularMovies(ctx context.Context, k int, genre string) (recommend.Result, error)
	TrendingMovies(ctx context.Context, k int) (recommend.Result, error)
}

// PosterFinder looks up a poster URL; "" means none was found.
type PosterFinder interface {
	FindPoster(ctx context.Context, title, releaseDate string) (string, error)
}

type Service struct {
	store    Store
	cache    RecommendationCache
	sessions SessionStore
	engine   Recommender
	posters  PosterFinder
	log      *zap.Logger
}

// Deps groups the collaborators of a Service. Posters may be nil when no TMDB key is configured.
type Deps struct {
	Store    Store
	Cache    RecommendationCache
	Sessions SessionStore
	Engine   Recommender
	Posters  PosterFinder
	Logger   *zap.Logger
}

func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    d.Store,
		cache:    d.Cache,
		sessions: d.Sessions,
		engine:   d.Engine,
		posters:  d.Posters,
		log:      log.With(zap.String("component", "service")),
	}
}

// ClampK maps a requested list size onto [1, maxK], defaulting non-positive values.
func ClampK(k int) int {
	if k <= 0 {
		return defaultK
	}
	if k > maxK {
		return maxK
	}
	return k
}
