package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 20
	maxLimit     = 100
	maxPage      = 10000
)

type Handler struct {
	service *service.Service
	log     *zap.Logger
	// secureCookies marks the session cookie Secure; off in dev mode.
	secureCookies bool
}

func NewHandler(svc *service.Service, log *zap.Logger, secureCookies bool) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service:       svc,
		log:           log.With(zap.String("component", "handler")),
		secureCookies: secureCookies,
	}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "Malformed JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		writeError(w, http.StatusBadRequest, "invalid_body", msg)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter, writing a 400 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// chiParam returns an unescaped, trimmed URL parameter; "" when it is missing or malformed.
func chiParam(r *http.Request, name string) string {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// queryInt reads an optional integer query parameter bounded to [lo, hi].
func queryInt(w http.ResponseWriter, r *http.Request, name string, fallback, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid "+name+" parameter")
		return 0, false
	}
	return n, true
}

func pagination(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	if page, ok = queryInt(w, r, "page", 1, 1, maxPage); !ok {
		return 0, 0, false
	}
	if limit, ok = queryInt(w, r, "limit", defaultLimit, 1, maxLimit); !ok {
		return 0, 0, false
	}
	return page, limit, true
}
