package handler

import (
	"net/http"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/auth"
	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

const sessionCookie = "session_token"

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession rejects requests without a live session and stores the
// session in the request context.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.service.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
	})
}

// AdminOnly must run after RequireSession.
func (h *Handler) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := auth.SessionFrom(r.Context())
		if !ok {
			h.respondError(w, r, domain.ErrUnauthorized)
			return
		}
		if sess.Role != domain.RoleAdmin {
			h.respondError(w, r, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentSession returns the session installed by RequireSession.
func currentSession(r *http.Request) *domain.Session {
	sess, _ := auth.SessionFrom(r.Context())
	return sess
}
