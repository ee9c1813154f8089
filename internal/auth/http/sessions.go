package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

type SessionHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Starts a session with a password or an invite token. Invite logins consume the invite; a consumed or expired invite fails like a wrong password.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"email and password, or email and invite_token"
//	@Success		200		{object}	authsdk.SessionResponse	"access_token, token_type, expires_in, method, scope"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions [post].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Email == "" || (req.Password == "" && req.InviteToken == "") {
		writeBadRequest(w, "email and a password or invite_token are required")
		return
	}

	sess, err := h.Sessions.Login(ctx, service.Credentials{
		Email:       req.Email,
		Password:    req.Password,
		InviteToken: req.InviteToken,
	})
	if err != nil {
		writeServiceError(w, log, err, "login")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		AccessToken: sess.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(sess.ExpiresAt).Seconds()),
		Method:      sess.Method,
		Scope:       strings.Join(sess.Identity.Role.Scopes(), " "),
	})
}
