package handler

import (
	"net/http"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// PUT /me/ratings
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	var in domain.RatingInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rating, err := h.service.RateMovie(r.Context(), currentSession(r).UserID, in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

// GET /me/ratings
func (h *Handler) ListMyRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.ListMyRatings(r.Context(), currentSession(r).UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(ratings, 0, 0))
}

// GET /me/ratings/{movieID}
func (h *Handler) GetMyRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	rating, err := h.service.GetMyRating(r.Context(), currentSession(r).UserID, movieID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

// DELETE /me/ratings/{movieID}
func (h *Handler) DeleteMyRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	if err := h.service.DeleteMyRating(r.Context(), currentSession(r).UserID, movieID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /movies/{movieID}/ratings
func (h *Handler) ListMovieRatings(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	ratings, err := h.service.ListMovieRatings(r.Context(), movieID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(ratings, 0, 0))
}

// GET /admin/ratings
func (h *Handler) ListAllRatings(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pagination(w, r)
	if !ok {
		return
	}
	ratings, err := h.service.ListAllRatings(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(ratings, page, limit))
}

// DELETE /admin/ratings/{ratingID}
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	ratingID, ok := pathID(w, r, "ratingID")
	if !ok {
		return
	}
	if err := h.service.DeleteRatingByID(r.Context(), ratingID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
