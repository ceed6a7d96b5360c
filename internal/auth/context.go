package auth

import (
	"context"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

type ctxKey struct{}

// WithSession attaches the caller's session to ctx.
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the session set by WithSession, if any.
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*domain.Session)
	return s, ok && s != nil
}
