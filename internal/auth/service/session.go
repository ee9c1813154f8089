package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/metrics"
	"github.com/aussiebroadwan/lectern/pkg/jwtx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	Identity    domain.Identity
	Method      string
}

// SessionService turns credentials into a signed session token.
type SessionService struct {
	Authenticator *Authenticator
	Invites       *InviteService
	KeyManager    *jwtx.KeyManager
	Issuer        string
	Audience      []string
	TTL           time.Duration
	Clock         Clock
}

// Login authenticates and, in invite mode, consumes the invite before the
// session is issued. A concurrent login that consumed the same invite first
// is not a failure: the invite has been spent on this account either way.
func (s *SessionService) Login(ctx context.Context, c Credentials) (sess Session, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.Login")
	span.SetAttributes(attribute.String("auth.mode", c.Mode()))
	defer func() {
		metrics.Login(c.Mode(), loginOutcome(err))
		endSpan(span, err)
	}()

	log := slogx.FromContext(ctx)

	// 1. Authenticate. Nothing has been written yet.
	res, err := s.Authenticator.Authenticate(ctx, c)
	if err != nil {
		return Session{}, err
	}

	// 2. Consume, strictly after authentication succeeded.
	if res.ConsumeToken != "" {
		_, err := s.Invites.Consume(ctx, res.ConsumeToken, res.Identity.Email)
		switch {
		case err == nil:
		case errors.Is(err, ErrInviteAlreadyUsed):
			log.Info("invite consumed by a concurrent login",
				slog.String("user_id", res.Identity.UserID),
			)
		case errors.Is(err, ErrInviteNotFound),
			errors.Is(err, ErrInviteExpired),
			errors.Is(err, ErrInviteEmailMismatch):
			return Session{}, ErrInvalidCredentials
		default:
			return Session{}, err
		}
	}

	// 3. Sign.
	sess, err = s.issue(res)
	if err != nil {
		return Session{}, err
	}

	log.Info("session issued",
		slog.String("user_id", res.Identity.UserID),
		slog.String("method", res.Method),
	)
	return sess, nil
}

func (s *SessionService) issue(res AuthResult) (Session, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	now := s.Clock.now()

	claims := jwtx.NewSessionClaims(jwtx.SessionParams{
		Subject:  res.Identity.UserID,
		Email:    res.Identity.Email,
		Name:     res.Identity.Name,
		Role:     res.Identity.Role.String(),
		Scopes:   res.Identity.Role.Scopes(),
		AMR:      []string{res.Method},
		Issuer:   s.Issuer,
		Audience: s.Audience,
		TTL:      ttl,
		Now:      now,
	})

	token, err := s.KeyManager.GetSigner().Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}

	return Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Identity:    res.Identity,
		Method:      res.Method,
	}, nil
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidCredentials):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
