package handler

import "net/http"

// GET /admin/analytics/users/{userID}/history
func (h *Handler) UserRatingHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	history, err := h.service.UserRatingHistory(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(history, 0, 0))
}

// GET /admin/analytics/top-rated
func (h *Handler) TopRatedMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.TopRatedMovies(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(movies, 0, 0))
}

// GET /admin/analytics/active-users
func (h *Handler) MostActiveUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.MostActiveUsers(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(users, 0, 0))
}

// GET /admin/analytics/rating-distribution
func (h *Handler) RatingDistribution(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.RatingDistribution(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(buckets, 0, 0))
}
