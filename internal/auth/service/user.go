package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/idx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

type UserService struct {
	Store store.Store
	Clock Clock

	// TeacherSignupToken gates TEACHER registration. Empty disables it.
	TeacherSignupToken string
}

type RegisterParams struct {
	Email       string
	Name        string
	Password    string
	Role        domain.Role
	SignupToken string
}

// Register creates a password account. Students may sign up freely;
// teachers need the configured signup token.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email, err := normalizeEmail(p.Email)
	if err != nil {
		return domain.User{}, err
	}
	if len(p.Password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	role := p.Role
	if role == "" {
		role = domain.RoleStudent
	}
	switch role {
	case domain.RoleStudent:
	case domain.RoleTeacher:
		if s.TeacherSignupToken == "" ||
			subtle.ConstantTimeCompare([]byte(p.SignupToken), []byte(s.TeacherSignupToken)) != 1 {
			log.Warn("teacher signup refused")
			return domain.User{}, ErrSignupNotAllowed
		}
	default:
		return domain.User{}, ErrInvalidRequest
	}

	// 2. Hash and create.
	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.now()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		Name:         displayName(p.Name, email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	log.Info("user registered",
		slog.String("user_id", u.ID),
		slog.String("role", u.Role.String()),
	)
	return u, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
