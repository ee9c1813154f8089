package authsdk_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLoginAndScopedCall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.InviteToken != "tok" {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		_ = json.NewEncoder(w).Encode(authsdk.SessionResponse{
			AccessToken: "jwt",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
			Method:      "invite",
			Scope:       "profile:read courses:read",
		})
	})
	mux.HandleFunc("GET /v1/userinfo", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(authsdk.UserInfoResponse{UserID: "u1", Email: "alice@example.com"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := authsdk.NewSDKClient(srv.URL + "/")

	_, err := client.LoginWithInvite(t.Context(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	sess, err := client.LoginWithInvite(t.Context(), "alice@example.com", "tok")
	require.NoError(t, err)
	require.Equal(t, "invite", sess.Method())
	require.True(t, sess.HasScope("courses:read"))

	info, err := sess.GetUserInfo(t.Context())
	require.NoError(t, err)
	require.Equal(t, "u1", info.UserID)

	// Checked client side, no request is made.
	_, err = sess.CreateCourse(t.Context(), authsdk.CreateCourseRequest{Title: "Compilers"})
	require.ErrorContains(t, err, "courses:write")
}

func TestExpiredSession(t *testing.T) {
	client := authsdk.NewSDKClient("http://127.0.0.1:0")
	sess := client.NewSessionFromToken("jwt", "profile:read", 0)

	_, err := sess.GetUserInfo(t.Context())
	require.ErrorIs(t, err, authsdk.ErrSessionExpired)
}

func TestNonJSONErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := authsdk.NewSDKClient(srv.URL).GetLiveness(t.Context())

	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeServerError, apiErr.Code)
}

func TestAPIErrorWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	authsdk.ErrInviteExpired.WriteError(rec)

	require.Equal(t, http.StatusGone, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"error":"invite_expired","error_description":"this invite has expired, ask your teacher for a new one"}`, rec.Body.String())
}
