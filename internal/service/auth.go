package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/auth"
	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
	"go.uber.org/zap"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a regular user account.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	reg.Email = normalizeEmail(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if err := validation.Struct(&reg); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(ctx, reg.Email, reg.Name, hash, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login checks credentials and opens a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Info("login rejected", zap.Int64("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, sess *domain.Session) error {
	return s.sessions.Destroy(ctx, sess)
}

// Authenticate resolves a session token to its session.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	return s.sessions.Get(ctx, token)
}

// CurrentUser loads the account behind a session.
func (s *Service) CurrentUser(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	return s.store.GetUserByID(ctx, sess.UserID)
}

// EnsureDefaultAdmin creates an admin account unless the email is already registered.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("look up default admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user, err := s.store.CreateUser(ctx, email, "Administrator", hash, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}
	s.log.Info("default admin created", zap.Int64("user_id", user.ID))
	return nil
}
