package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// Authentication methods, as they appear in the amr claim.
const (
	MethodPassword = "pwd"
	MethodInvite   = "invite"
)

// Credentials is a login attempt. A non-empty InviteToken selects invite
// mode and Password is ignored.
type Credentials struct {
	Email       string
	Password    string
	InviteToken string
}

func (c Credentials) Mode() string {
	if c.InviteToken != "" {
		return MethodInvite
	}
	return MethodPassword
}

type AuthResult struct {
	Identity domain.Identity
	Method   string

	// ConsumeToken is set in invite mode. The caller must consume it before
	// treating the login as complete.
	ConsumeToken string
}

// Authenticator decides logins. It never writes: consuming the invite is
// left to the caller once authentication has succeeded.
type Authenticator struct {
	Store store.Store
	Clock Clock
}

// Authenticate returns ErrInvalidCredentials for every rejection so callers
// cannot tell a wrong password from a missing account or a spent invite.
// Storage failures are returned wrapped.
func (a *Authenticator) Authenticate(ctx context.Context, c Credentials) (res AuthResult, err error) {
	ctx, span := tracer.Start(ctx, "Authenticator.Authenticate")
	span.SetAttributes(attribute.String("auth.mode", c.Mode()))
	defer func() { endSpan(span, err) }()

	if c.InviteToken != "" {
		return a.authenticateInvite(ctx, c.Email, c.InviteToken)
	}
	return a.authenticatePassword(ctx, c.Email, c.Password)
}

func (a *Authenticator) authenticatePassword(ctx context.Context, email, password string) (AuthResult, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	u, err := a.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("password login for unknown email")
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Debug("password login rejected", slog.String("user_id", u.ID))
		return AuthResult{}, ErrInvalidCredentials
	}

	return AuthResult{Identity: u.Identity(), Method: MethodPassword}, nil
}

func (a *Authenticator) authenticateInvite(ctx context.Context, email, token string) (AuthResult, error) {
	log := slogx.FromContext(ctx)
	now := a.Clock.now()

	// 1. The invite must exist, match exactly, and still be pending.
	inv, err := a.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("invite login with unknown token")
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup invite: %w", err)
	}

	if inv.Email != email {
		log.Warn("invite login email mismatch",
			slog.String("invite_id", inv.ID),
			slog.String("invite_email", inv.Email),
			slog.String("supplied_email", email),
		)
		return AuthResult{}, ErrInvalidCredentials
	}

	if state := inv.StateAt(now); state != domain.InviteStatePending {
		log.Debug("invite login with spent invite",
			slog.String("invite_id", inv.ID),
			slog.String("state", string(state)),
		)
		return AuthResult{}, ErrInvalidCredentials
	}

	// 2. The account must already exist; provisioning is a separate step.
	u, err := a.Store.Users().GetUserByEmail(ctx, inv.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invite login before account was provisioned",
				slog.String("invite_id", inv.ID),
			)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	return AuthResult{Identity: u.Identity(), Method: MethodInvite, ConsumeToken: token}, nil
}
