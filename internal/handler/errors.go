package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
	"go.uber.org/zap"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{domain.ErrUserNotFound, http.StatusNotFound, "user_not_found", "User does not exist"},
	{domain.ErrMovieNotFound, http.StatusNotFound, "movie_not_found", "Movie does not exist"},
	{domain.ErrRatingNotFound, http.StatusNotFound, "rating_not_found", "Rating does not exist"},
	{domain.ErrWatchlistEntryNotFound, http.StatusNotFound, "watchlist_entry_not_found", "Movie is not on the watchlist"},
	{domain.ErrNotFound, http.StatusNotFound, "movie_not_in_model", "Movie is not known to the recommendation model"},
	{domain.ErrEmailTaken, http.StatusConflict, "email_taken", "Email is already registered"},
	{domain.ErrMovieExists, http.StatusConflict, "movie_exists", "A movie with this id already exists"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication required"},
	{domain.ErrInactiveUser, http.StatusForbidden, "user_inactive", "Account is deactivated"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden", "Admin role required"},
	{domain.ErrNoFieldsToUpdate, http.StatusBadRequest, "no_fields", "No fields provided for update"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "invalid_role", "Role must be admin or user"},
	{domain.ErrModelUnavailable, http.StatusServiceUnavailable, "model_unavailable", "Recommendation model is temporarily unavailable"},
	{domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, "catalog_unavailable", "Movie catalog is temporarily unavailable"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again"},
	{context.Canceled, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again"},
}

// respondError maps a service error onto a status code and error body.
// Unrecognised errors are logged and reported as 500 without detail.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				h.log.Warn("request degraded", zap.String("path", r.URL.Path), zap.Error(err))
			}
			writeError(w, m.status, m.code, m.message)
			return
		}
	}

	h.log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
