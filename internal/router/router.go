package router

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Options struct {
	// LoginRateLimit caps login and register attempts per IP per minute; 0 disables it.
	LoginRateLimit int
	// Checks back the /ready endpoint, keyed by dependency name.
	Checks map[string]Check
}

func Setup(h *handler.Handler, log *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/health", healthCheck)
	r.Get("/ready", readyCheck(opts.Checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		if opts.LoginRateLimit > 0 {
			r.Use(httprate.LimitByIP(opts.LoginRateLimit, time.Minute))
		}
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(h.RequireSession).Post("/logout", h.Logout)
	})

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", h.ListMovies)
		r.Get("/search", h.SearchMovies)
		r.Get("/popular", h.PopularMovies)
		r.Get("/trending", h.TrendingMovies)
		r.Get("/genre/{genre}", h.MoviesByGenre)
		r.Get("/{movieID}", h.GetMovie)
		r.Get("/{movieID}/similar", h.SimilarMovies)
		r.With(h.RequireSession).Get("/{movieID}/ratings", h.ListMovieRatings)
	})

	r.Route("/me", func(r chi.Router) {
		r.Use(h.RequireSession)
		r.Get("/", h.Me)
		r.Patch("/", h.UpdateProfile)
		r.Get("/recommendations", h.GetMyRecommendations)

		r.Get("/ratings", h.ListMyRatings)
		r.Put("/ratings", h.RateMovie)
		r.Get("/ratings/{movieID}", h.GetMyRating)
		r.Delete("/ratings/{movieID}", h.DeleteMyRating)

		r.Get("/watchlist", h.ListWatchlist)
		r.Post("/watchlist", h.AddToWatchlist)
		r.Put("/watchlist/{movieID}", h.UpdateWatchStatus)
		r.Delete("/watchlist/{movieID}", h.RemoveFromWatchlist)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireSession, h.AdminOnly)

		r.Get("/users", h.ListUsers)
		r.Get("/users/{userID}", h.GetUser)
		r.Put("/users/{userID}/role", h.SetUserRole)
		r.Post("/users/{userID}/activate", h.ActivateUser)
		r.Post("/users/{userID}/deactivate", h.DeactivateUser)
		r.Get("/users/{userID}/recommendations", h.GetUserRecommendations)
		r.Get("/recommendations/batch", h.GetBatchRecommendations)

		r.Get("/movies", h.ListAllMovies)
		r.Post("/movies", h.CreateMovie)
		r.Patch("/movies/{movieID}", h.UpdateMovie)
		r.Post("/movies/{movieID}/activate", h.ActivateMovie)
		r.Post("/movies/{movieID}/deactivate", h.DeactivateMovie)
		r.Delete("/movies/{movieID}", h.DeleteMovie)

		r.Get("/ratings", h.ListAllRatings)
		r.Delete("/ratings/{ratingID}", h.DeleteRating)
		r.Get("/watchlists", h.ListAllWatchlists)

		r.Get("/analytics/users/{userID}/history", h.UserRatingHistory)
		r.Get("/analytics/top-rated", h.TopRatedMovies)
		r.Get("/analytics/active-users", h.MostActiveUsers)
		r.Get("/analytics/rating-distribution", h.RatingDistribution)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func readyCheck(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": overall, "dependencies": deps})
	}
}
