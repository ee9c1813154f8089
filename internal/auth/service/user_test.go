package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, RegisterParams{Email: " alice@example.com ", Password: "wonderland"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, "alice", u.Name)
	require.Equal(t, domain.RoleStudent, u.Role)

	got, err := e.users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)

	_, err = e.users.GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterRules(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		p    RegisterParams
		err  error
	}{
		{"bad email", RegisterParams{Email: "alice", Password: "wonderland"}, ErrInvalidEmail},
		{"short password", RegisterParams{Email: "alice@example.com", Password: "short"}, ErrWeakPassword},
		{"taken", RegisterParams{Email: "grace@example.edu", Password: "wonderland"}, ErrEmailTaken},
		{"unknown role", RegisterParams{Email: "alice@example.com", Password: "wonderland", Role: "ADMIN"}, ErrInvalidRequest},
		{"teacher without token", RegisterParams{Email: "ada@example.edu", Password: "wonderland", Role: domain.RoleTeacher}, ErrSignupNotAllowed},
		{"teacher wrong token", RegisterParams{Email: "ada@example.edu", Password: "wonderland", Role: domain.RoleTeacher, SignupToken: "guess"}, ErrSignupNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.users.Register(ctx, tc.p)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestRegisterTeacherDisabled(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	users := *e.users
	users.TeacherSignupToken = ""
	_, err := users.Register(context.Background(), RegisterParams{
		Email:    "ada@example.edu",
		Password: "wonderland",
		Role:     domain.RoleTeacher,
	})
	require.ErrorIs(t, err, ErrSignupNotAllowed)
}
