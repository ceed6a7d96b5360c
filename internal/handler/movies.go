package handler

import (
	"net/http"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// GET /movies
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pagination(w, r)
	if !ok {
		return
	}
	movies, err := h.service.ListMovies(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(movies, page, limit))
}

// GET /movies/{movieID}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	movie, err := h.service.GetMovie(r.Context(), movieID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// GET /movies/search?q=
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.SearchMovies(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(movies, 0, 0))
}

// GET /movies/genre/{genre}
func (h *Handler) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genre := chiParam(r, "genre")
	if genre == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid genre parameter")
		return
	}
	movies, err := h.service.MoviesByGenre(r.Context(), genre)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(movies, 0, 0))
}

// GET /admin/movies
func (h *Handler) ListAllMovies(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pagination(w, r)
	if !ok {
		return
	}
	movies, err := h.service.ListAllMovies(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(movies, page, limit))
}

// POST /admin/movies
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var in domain.NewMovie
	if !decodeJSON(w, r, &in) {
		return
	}
	movie, err := h.service.CreateMovie(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

// PATCH /admin/movies/{movieID}
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	var upd domain.MovieUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	movie, err := h.service.UpdateMovie(r.Context(), movieID, upd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// POST /admin/movies/{movieID}/activate
func (h *Handler) ActivateMovie(w http.ResponseWriter, r *http.Request) {
	h.setMovieActive(w, r, true)
}

// POST /admin/movies/{movieID}/deactivate
func (h *Handler) DeactivateMovie(w http.ResponseWriter, r *http.Request) {
	h.setMovieActive(w, r, false)
}

func (h *Handler) setMovieActive(w http.ResponseWriter, r *http.Request, active bool) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	if err := h.service.SetMovieActive(r.Context(), movieID, active); err != nil {
		h.respondError(w, r, err)
		return
	}
	msg := "movie activated"
	if !active {
		msg = "movie deactivated"
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// DELETE /admin/movies/{movieID}
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	if err := h.service.DeleteMovie(r.Context(), movieID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
