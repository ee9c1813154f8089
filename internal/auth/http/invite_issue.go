package http

import (
	"net/http"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

// InviteIssueHandler serves the teacher side of invites.
type InviteIssueHandler struct {
	Invites *service.InviteService
	Courses *service.CourseService
}

// HandleCreate godoc
//
//	@Summary		Create Invite
//	@Description	Invite an email address to a course you own. If a pending invite for the same email and course exists it is returned again (200) and its notification re-sent; otherwise a new invite is created (201).
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateInviteRequest		true	"Invite request"
//	@Success		201		{object}	authsdk.CreateInviteResponse	"New invite"
//	@Success		200		{object}	authsdk.CreateInviteResponse	"Pending invite reused"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteIssueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.CreateInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Email == "" || req.CourseID == "" {
		writeBadRequest(w, "email and course_id are required")
		return
	}

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if _, err := h.Courses.RequireOwner(ctx, req.CourseID, userID); err != nil {
		writeServiceError(w, log, err, "check course owner")
		return
	}

	out, err := h.Invites.Issue(ctx, service.IssueInviteParams{
		Email:    req.Email,
		CourseID: req.CourseID,
		IssuerID: userID,
	})
	if err != nil {
		writeServiceError(w, log, err, "issue invite")
		return
	}

	status := http.StatusCreated
	if out.Reused {
		status = http.StatusOK
	}
	httpx.WriteJSON(w, status, authsdk.CreateInviteResponse{
		Invite:        inviteInfo(out.Invite, domain.InviteStatePending, out.AcceptanceURL),
		AcceptanceURL: out.AcceptanceURL,
		Reused:        out.Reused,
	})
}

// HandleList godoc
//
//	@Summary		List Course Invites
//	@Description	Lists the invites of a course you own, newest first. Pending invites include their acceptance URL.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string						true	"Course ID"
//	@Success		200	{object}	authsdk.ListInvitesResponse	"invites"
//	@Failure		401	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/courses/{id}/invites [get].
func (h *InviteIssueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	views, err := h.Invites.ListForCourse(ctx, r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, log, err, "list invites")
		return
	}

	resp := authsdk.ListInvitesResponse{Invites: make([]authsdk.InviteInfo, 0, len(views))}
	for _, v := range views {
		resp.Invites = append(resp.Invites, inviteInfo(v.Invite, v.State, v.AcceptanceURL))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleResend godoc
//
//	@Summary		Resend Invite Notification
//	@Description	Sends a pending invite's notification again and reports whether the channel accepted it. Consumed and expired invites are refused.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string							true	"Invite ID"
//	@Success		200	{object}	authsdk.ResendInviteResponse	"invite_id, acceptance_url, delivered"
//	@Failure		401	{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		403	{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		404	{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		409	{object}	authsdk.ErrorResponse			"invite_already_used"
//	@Failure		410	{object}	authsdk.ErrorResponse			"invite_expired"
//	@Security		BearerAuth
//	@Router			/v1/invites/{id}/resend [post].
func (h *InviteIssueHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	out, err := h.Invites.Resend(ctx, r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, log, err, "resend invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ResendInviteResponse{
		InviteID:      out.Invite.ID,
		AcceptanceURL: out.AcceptanceURL,
		Delivered:     out.Delivered,
	})
}
