package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/idx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

// AccountProvisioner lazily creates student accounts for invitees.
type AccountProvisioner struct {
	Store store.Store
	Clock Clock

	// NewSecret returns the throwaway password for provisioned accounts.
	// Defaults to cryptox.GenerateSecret.
	NewSecret func() (string, error)
}

// EnsureAccount returns the account for email, creating a STUDENT account
// when there is none. An existing account is returned untouched. The
// boolean reports whether this call created it.
//
// Created accounts get a password hashed from a random secret that is
// dropped at once; they can only sign in with an invite.
func (p *AccountProvisioner) EnsureAccount(ctx context.Context, email, nameHint string) (domain.User, bool, error) {
	log := slogx.FromContext(ctx)

	// 1. Existing account wins.
	u, err := p.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, fmt.Errorf("lookup user: %w", err)
	}

	// 2. Hash a secret nobody will ever see.
	newSecret := p.NewSecret
	if newSecret == nil {
		newSecret = cryptox.GenerateSecret
	}
	secret, err := newSecret()
	if err != nil {
		return domain.User{}, false, fmt.Errorf("generate secret: %w", err)
	}
	hash, err := cryptox.HashPassword(secret)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("hash secret: %w", err)
	}

	// 3. Create. Losing a race to another provisioner is fine, use theirs.
	now := p.Clock.now()
	u = domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		Name:         displayName(nameHint, email),
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.Store.Users().CreateUser(ctx, u); err != nil {
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, false, fmt.Errorf("create user: %w", err)
		}

		existing, rerr := p.Store.Users().GetUserByEmail(ctx, email)
		if rerr != nil {
			return domain.User{}, false, fmt.Errorf("re-read user after conflict: %w", rerr)
		}
		log.Debug("account provisioned concurrently, using existing",
			slog.String("user_id", existing.ID),
		)
		return existing, false, nil
	}

	log.Info("account provisioned",
		slog.String("user_id", u.ID),
		slog.String("role", u.Role.String()),
	)
	return u, true, nil
}
