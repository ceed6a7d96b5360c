package handler

import (
	"net/http"
)

// GET /admin/recommendations/batch
func (h *Handler) GetBatchRecommendations(w http.ResponseWriter, r *http.Request) {
	// Parse and validate page and limit
	page, limit, ok := pagination(w, r)
	if !ok {
		return
	}

	// Call service
	result, err := h.service.GetBatchRecommendations(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
