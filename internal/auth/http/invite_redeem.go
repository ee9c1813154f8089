package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

// InviteRedeemHandler serves the invitee side of invites.
type InviteRedeemHandler struct {
	Invites *service.InviteService
}

// HandleVerify godoc
//
//	@Summary		Verify Invite
//	@Description	Reports the state of an invite token without changing it. Always 200; the status field carries the outcome.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	query		string							true	"Invite token"
//	@Success		200		{object}	authsdk.VerifyInviteResponse	"status, email, course_title, course_description, expires_at, account_exists"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invites/verify [get].
func (h *InviteRedeemHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	v, err := h.Invites.Verify(ctx, token)
	if errors.Is(err, service.ErrInviteNotFound) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyInviteResponse{Status: authsdk.VerifyStatusNotFound})
		return
	}
	if err != nil {
		writeServiceError(w, log, err, "verify invite")
		return
	}

	expiresAt := v.Invite.ExpiresAt
	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyInviteResponse{
		Status:            string(v.Status),
		Email:             v.Invite.Email,
		CourseTitle:       v.Course.Title,
		CourseDescription: v.Course.Description,
		ExpiresAt:         &expiresAt,
		AccountExists:     v.AccountExists,
	})
}

// HandleAutoLogin godoc
//
//	@Summary		Auto-provision Invitee
//	@Description	Creates the invitee's STUDENT account if it does not exist yet. The invite is not consumed; log in with it next via POST /v1/sessions.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.AutoLoginRequest	true	"Invite token and optional display name"
//	@Success		200		{object}	authsdk.AutoLoginResponse	"email, display_name, course_title, created"
//	@Failure		400		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	authsdk.ErrorResponse		"invite_invalid"
//	@Failure		409		{object}	authsdk.ErrorResponse		"invite_already_used"
//	@Failure		410		{object}	authsdk.ErrorResponse		"invite_expired"
//	@Router			/v1/invites/auto-login [post].
func (h *InviteRedeemHandler) HandleAutoLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.AutoLoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	out, err := h.Invites.AutoProvision(ctx, req.Token, req.Name)
	if err != nil {
		writeServiceError(w, log, err, "auto-provision invitee")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AutoLoginResponse{
		Email:       out.Email,
		DisplayName: out.DisplayName,
		CourseTitle: out.CourseTitle,
		Created:     out.Created,
	})
}

// HandleConfirm godoc
//
//	@Summary		Confirm Invite Consumed
//	@Description	Consumes an invite for the session's email. Confirming an invite that is already used succeeds with already_used set.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ConfirmInviteRequest	true	"Invite token"
//	@Success		200		{object}	authsdk.ConfirmInviteResponse	"invite_id, course_id, used_at, already_used"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	authsdk.ErrorResponse			"invite_invalid"
//	@Failure		410		{object}	authsdk.ErrorResponse			"invite_expired"
//	@Security		BearerAuth
//	@Router			/v1/invites/confirm [post].
func (h *InviteRedeemHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ConfirmInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok || claims.Email == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	inv, err := h.Invites.Consume(ctx, req.Token, claims.Email)
	alreadyUsed := errors.Is(err, service.ErrInviteAlreadyUsed)
	if err != nil && !alreadyUsed {
		writeServiceError(w, log, err, "consume invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ConfirmInviteResponse{
		InviteID:    inv.ID,
		CourseID:    inv.CourseID,
		UsedAt:      *inv.UsedAt,
		AlreadyUsed: alreadyUsed,
	})
}

// HandleAccept godoc
//
//	@Summary		Accept Invite
//	@Description	Landing page sign-up: creates a password account for the invite's email and consumes the invite. If the email already has an account, log in instead.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.AcceptInviteRequest		true	"Token, name, password"
//	@Success		201		{object}	authsdk.AcceptInviteResponse	"user, course_id, course_title"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	authsdk.ErrorResponse			"invite_invalid"
//	@Failure		409		{object}	authsdk.ErrorResponse			"invite_already_used or email_taken"
//	@Failure		410		{object}	authsdk.ErrorResponse			"invite_expired"
//	@Router			/v1/invites/accept [post].
func (h *InviteRedeemHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.AcceptInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Token == "" || req.Password == "" {
		writeBadRequest(w, "token and password are required")
		return
	}

	out, err := h.Invites.Accept(ctx, service.AcceptParams{
		Token:    req.Token,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, log, err, "accept invite")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.AcceptInviteResponse{
		User:        userResponse(out.User),
		CourseID:    out.Course.ID,
		CourseTitle: out.Course.Title,
	})
}
