package handler

import (
	"net/http"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// POST /me/watchlist
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var in domain.WatchlistInput
	if !decodeJSON(w, r, &in) {
		return
	}
	added, err := h.service.AddToWatchlist(r.Context(), currentSession(r).UserID, in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !added {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "movie already on watchlist"})
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "movie added to watchlist"})
}

// GET /me/watchlist
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListWatchlist(r.Context(), currentSession(r).UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(entries, 0, 0))
}

// PUT /me/watchlist/{movieID}
func (h *Handler) UpdateWatchStatus(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	var req WatchStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := domain.WatchlistInput{MovieID: movieID, Status: req.Status}
	if err := h.service.UpdateWatchStatus(r.Context(), currentSession(r).UserID, in); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "watch status updated"})
}

// DELETE /me/watchlist/{movieID}
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	if err := h.service.RemoveFromWatchlist(r.Context(), currentSession(r).UserID, movieID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /admin/watchlists
func (h *Handler) ListAllWatchlists(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pagination(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListAllWatchlists(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(entries, page, limit))
}
