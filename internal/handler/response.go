package handler

import (
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
)

type RecommendationResponse struct {
	UserID          int64                     `json:"user_id,omitempty"`
	MovieID         int64                     `json:"movie_id,omitempty"`
	Recommendations []domain.RankedMovie      `json:"recommendations"`
	Metadata        domain.RecommendationMeta `json:"metadata"`
	Message         string                    `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

type RoleRequest struct {
	Role domain.Role `json:"role"`
}

type WatchStatusRequest struct {
	Status domain.WatchStatus `json:"status"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Count int `json:"count"`
}

func list[T any](items []T, page, limit int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Page: page, Limit: limit, Count: len(items)}
}

type MessageResponse struct {
	Message string `json:"message"`
}

// recommendationResponse wraps a ranked list; degraded is set when the list
// came from a different ranking than the one requested.
func recommendationResponse(res *domain.RecommendationResult, want domain.RecommendationSource) RecommendationResponse {
	return RecommendationResponse{
		Recommendations: res.Recommendations,
		Metadata: domain.RecommendationMeta{
			CacheHit:    res.CacheHit,
			Source:      res.Source,
			Degraded:    res.Source != want,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(res.Recommendations),
		},
	}
}
