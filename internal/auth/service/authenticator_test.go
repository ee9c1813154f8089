package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatePassword(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Authenticate(ctx, Credentials{Email: "grace@example.edu", Password: teacherPassword})
	require.NoError(t, err)
	require.Equal(t, MethodPassword, res.Method)
	require.Empty(t, res.ConsumeToken)
	require.Equal(t, e.teacher.ID, res.Identity.UserID)
	require.Equal(t, domain.RoleTeacher, res.Identity.Role)

	cases := []Credentials{
		{Email: "grace@example.edu", Password: "wrong password"},
		{Email: "grace@example.edu"},
		{Email: "nobody@example.edu", Password: teacherPassword},
		{Email: "Grace@example.edu", Password: teacherPassword},
	}
	for _, c := range cases {
		_, err := e.auth.Authenticate(ctx, c)
		require.ErrorIs(t, err, ErrInvalidCredentials, c.Email)
	}
}

func TestAuthenticateInvite(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	_, token := e.issue(t, "alice@example.com")

	// No account yet.
	_, err := e.auth.Authenticate(ctx, Credentials{Email: "alice@example.com", InviteToken: token})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = e.invites.AutoProvision(ctx, token, "Alice")
	require.NoError(t, err)

	res, err := e.auth.Authenticate(ctx, Credentials{Email: "alice@example.com", InviteToken: token, Password: "ignored"})
	require.NoError(t, err)
	require.Equal(t, MethodInvite, res.Method)
	require.Equal(t, token, res.ConsumeToken)
	require.Equal(t, "Alice", res.Identity.Name)
	require.Equal(t, domain.RoleStudent, res.Identity.Role)

	// Authenticate never consumes.
	v, err := e.invites.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, VerifyValid, v.Status)
}

func TestAuthenticateInviteRejections(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	_, token := e.issue(t, "alice@example.com")
	_, err := e.invites.AutoProvision(ctx, token, "")
	require.NoError(t, err)

	t.Run("unknown token", func(t *testing.T) {
		_, err := e.auth.Authenticate(ctx, Credentials{Email: "alice@example.com", InviteToken: "deadbeef"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("another email", func(t *testing.T) {
		_, err := e.auth.Authenticate(ctx, Credentials{Email: "grace@example.edu", InviteToken: token})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("case differs", func(t *testing.T) {
		_, err := e.auth.Authenticate(ctx, Credentials{Email: "ALICE@example.com", InviteToken: token})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("expired", func(t *testing.T) {
		e.clock.Advance(8 * 24 * time.Hour)
		_, err := e.auth.Authenticate(ctx, Credentials{Email: "alice@example.com", InviteToken: token})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticateConsumedInvite(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	_, token := e.issue(t, "alice@example.com")
	_, err := e.invites.AutoProvision(ctx, token, "")
	require.NoError(t, err)
	_, err = e.invites.Consume(ctx, token, "alice@example.com")
	require.NoError(t, err)

	_, err = e.auth.Authenticate(ctx, Credentials{Email: "alice@example.com", InviteToken: token})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCredentialsMode(t *testing.T) {
	t.Parallel()
	require.Equal(t, MethodPassword, Credentials{Email: "a@b.c", Password: "x"}.Mode())
	require.Equal(t, MethodInvite, Credentials{Email: "a@b.c", Password: "x", InviteToken: "t"}.Mode())
}
