package service

import (
	"context"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/auth"
	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
	"go.uber.org/zap"
)

func (s *Service) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.User, error) {
	if upd.Name == nil && upd.Password == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
	}
	if err := validation.Struct(&upd); err != nil {
		return nil, err
	}

	var hash *string
	if upd.Password != nil {
		h, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}
	return s.store.UpdateProfile(ctx, userID, upd.Name, hash)
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]domain.User, error) {
	return s.store.ListUsers(ctx, page, limit)
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// SetUserRole changes a role and ends the user's sessions so the new role applies at next login.
func (s *Service) SetUserRole(ctx context.Context, userID int64, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	if err := s.store.SetUserRole(ctx, userID, role); err != nil {
		return err
	}
	s.endSessions(ctx, userID)
	return nil
}

// SetUserActive toggles an account; deactivation also ends its sessions.
func (s *Service) SetUserActive(ctx context.Context, userID int64, active bool) error {
	if err := s.store.SetUserActive(ctx, userID, active); err != nil {
		return err
	}
	if !active {
		s.endSessions(ctx, userID)
	}
	return nil
}

func (s *Service) endSessions(ctx context.Context, userID int64) {
	if err := s.sessions.DestroyUser(ctx, userID); err != nil {
		s.log.Warn("ending sessions failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
