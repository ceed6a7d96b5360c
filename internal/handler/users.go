package handler

import "net/http"

// GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pagination(w, r)
	if !ok {
		return
	}
	users, err := h.service.ListUsers(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(users, page, limit))
}

// GET /admin/users/{userID}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// PUT /admin/users/{userID}/role
func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	var req RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.service.SetUserRole(r.Context(), userID, req.Role); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "role updated"})
}

// POST /admin/users/{userID}/activate
func (h *Handler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, true)
}

// POST /admin/users/{userID}/deactivate
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, false)
}

func (h *Handler) setUserActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	if !active && userID == currentSession(r).UserID {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Admins cannot deactivate themselves")
		return
	}
	if err := h.service.SetUserActive(r.Context(), userID, active); err != nil {
		h.respondError(w, r, err)
		return
	}
	msg := "user activated"
	if !active {
		msg = "user deactivated"
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// GET /admin/users/{userID}/recommendations
func (h *Handler) GetUserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	h.recommendationsFor(w, r, userID)
}
