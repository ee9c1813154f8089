//go:build e2e

package lectern_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestInviteLoginRejections checks every unusable invite login looks the
// same to the caller.
func TestInviteLoginRejections(t *testing.T) {
	baseURL, cleanup := setupLecternContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := authsdk.NewSDKClient(baseURL)
	teacher, course := setupTeacherWithCourse(t, client)

	created, err := teacher.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "dave@example.com", CourseID: course.ID})
	require.NoError(t, err)
	token := inviteToken(t, created.AcceptanceURL)

	_, err = client.AutoLogin(ctx, authsdk.AutoLoginRequest{Token: token})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  authsdk.LoginRequest
	}{
		{"unknown token", authsdk.LoginRequest{Email: "dave@example.com", InviteToken: strings.Repeat("0", 64)}},
		{"other email", authsdk.LoginRequest{Email: "mallory@example.com", InviteToken: token}},
		{"email differs in case", authsdk.LoginRequest{Email: "Dave@example.com", InviteToken: token}},
		{"guessed password", authsdk.LoginRequest{Email: "dave@example.com", Password: "Password123!"}},
		{"no such account", authsdk.LoginRequest{Email: "nobody@example.com", Password: "Password123!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Login(ctx, tt.req)
			require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)
		})
	}

	// None of the failures consumed the invite.
	v, err := client.VerifyInvite(ctx, token)
	require.NoError(t, err)
	require.Equal(t, authsdk.VerifyStatusValid, v.Status)

	_, err = client.LoginWithInvite(ctx, "dave@example.com", token)
	require.NoError(t, err)
}

// TestConfirmRequiresMatchingSession checks a session cannot spend an
// invite issued to someone else.
func TestConfirmRequiresMatchingSession(t *testing.T) {
	baseURL, cleanup := setupLecternContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := authsdk.NewSDKClient(baseURL)
	teacher, course := setupTeacherWithCourse(t, client)

	created, err := teacher.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "erin@example.com", CourseID: course.ID})
	require.NoError(t, err)
	token := inviteToken(t, created.AcceptanceURL)

	_, err = client.Register(ctx, authsdk.RegisterRequest{Email: "mallory@example.com", Password: "Mallory123!"})
	require.NoError(t, err)
	mallory, err := client.LoginWithPassword(ctx, "mallory@example.com", "Mallory123!")
	require.NoError(t, err)

	_, err = mallory.ConfirmInvite(ctx, token)
	require.ErrorIs(t, err, authsdk.ErrInviteInvalid)

	access, err := mallory.CourseAccess(ctx, course.ID)
	require.NoError(t, err)
	require.False(t, access.Access)

	_, err = mallory.CreateInvite(ctx, authsdk.CreateInviteRequest{Email: "x@example.com", CourseID: course.ID})
	require.Error(t, err, "students have no invites:write scope")

	v, err := client.VerifyInvite(ctx, token)
	require.NoError(t, err)
	require.Equal(t, authsdk.VerifyStatusValid, v.Status)
}

func TestTeacherSignupNeedsToken(t *testing.T) {
	baseURL, cleanup := setupLecternContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    "eve@example.com",
		Password: "Teacher123!",
		Role:     "TEACHER",
	})
	require.ErrorIs(t, err, authsdk.ErrSignupNotAllowed)

	_, err = client.LoginWithPassword(t.Context(), "eve@example.com", "Teacher123!")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)
}
