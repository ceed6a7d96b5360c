package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

const maxK = 50

// GET /me/recommendations
func (h *Handler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommendationsFor(w, r, currentSession(r).UserID)
}

func (h *Handler) recommendationsFor(w http.ResponseWriter, r *http.Request, userID int64) {
	// Parse and validate k
	k, ok := queryInt(w, r, "k", 10, 1, maxK)
	if !ok {
		return
	}
	genre := strings.TrimSpace(r.URL.Query().Get("genre"))

	result, err := h.service.GetRecommendations(r.Context(), userID, k, genre)
	if err != nil {
		h.recommendationError(w, r, err, domain.SourcePersonalized)
		return
	}

	resp := recommendationResponse(result, domain.SourcePersonalized)
	resp.UserID = userID
	writeJSON(w, http.StatusOK, resp)
}

// GET /movies/{movieID}/similar
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	k, ok := queryInt(w, r, "k", 10, 1, maxK)
	if !ok {
		return
	}

	result, err := h.service.SimilarMovies(r.Context(), movieID, k)
	if err != nil {
		h.recommendationError(w, r, err, domain.SourceSimilarity)
		return
	}
	resp := recommendationResponse(result, domain.SourceSimilarity)
	resp.MovieID = movieID
	writeJSON(w, http.StatusOK, resp)
}

// GET /movies/popular
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	k, ok := queryInt(w, r, "k", 10, 1, maxK)
	if !ok {
		return
	}
	result, err := h.service.PopularMovies(r.Context(), k, r.URL.Query().Get("genre"))
	if err != nil {
		h.recommendationError(w, r, err, domain.SourcePopularity)
		return
	}
	writeJSON(w, http.StatusOK, recommendationResponse(result, domain.SourcePopularity))
}

// GET /movies/trending
func (h *Handler) TrendingMovies(w http.ResponseWriter, r *http.Request) {
	k, ok := queryInt(w, r, "k", 10, 1, maxK)
	if !ok {
		return
	}
	result, err := h.service.TrendingMovies(r.Context(), k)
	if err != nil {
		h.recommendationError(w, r, err, domain.SourceTrending)
		return
	}
	writeJSON(w, http.StatusOK, recommendationResponse(result, domain.SourceTrending))
}

// recommendationError answers an empty catalog with an empty list; other errors go through respondError.
func (h *Handler) recommendationError(w http.ResponseWriter, r *http.Request, err error, want domain.RecommendationSource) {
	if !errors.Is(err, domain.ErrEmptyCatalog) {
		h.respondError(w, r, err)
		return
	}
	resp := recommendationResponse(&domain.RecommendationResult{Recommendations: []domain.RankedMovie{}, Source: want}, want)
	resp.Message = "No movies available to recommend"
	writeJSON(w, http.StatusOK, resp)
}
