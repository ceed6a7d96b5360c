package domain

import "errors"

var (
	ErrModelUnavailable   = errors.New("similarity model unavailable")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrNotFound           = errors.New("movie not found in similarity model")
	ErrEmptyCatalog       = errors.New("no candidate movies")

	ErrUserNotFound           = errors.New("user not found")
	ErrMovieNotFound          = errors.New("movie not found")
	ErrRatingNotFound         = errors.New("rating not found")
	ErrWatchlistEntryNotFound = errors.New("watchlist entry not found")
	ErrEmailTaken             = errors.New("email already registered")
	ErrMovieExists            = errors.New("movie already exists")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInactiveUser           = errors.New("user is deactivated")
	ErrUnauthorized           = errors.New("authentication required")
	ErrForbidden              = errors.New("insufficient role")
	ErrNoFieldsToUpdate       = errors.New("no fields provided for update")
	ErrInvalidRole            = errors.New("role must be admin or user")
)
