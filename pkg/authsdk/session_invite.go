package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateInvite invites an email address to one of the session's courses.
// A pending invite for the same pair is returned again with Reused set.
// Requires: invites:write scope
func (s *Session) CreateInvite(ctx context.Context, req CreateInviteRequest) (*CreateInviteResponse, error) {
	var out CreateInviteResponse
	err := s.sendJSON(ctx, http.MethodPost, "/v1/invites", req, &out, 0, "invites:write")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvites lists a course's invites, newest first.
// Requires: invites:write scope
func (s *Session) ListInvites(ctx context.Context, courseID string) (*ListInvitesResponse, error) {
	var out ListInvitesResponse
	if err := s.getJSON(ctx, "/v1/courses/"+url.PathEscape(courseID)+"/invites", &out, "invites:write"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendInvite sends a pending invite's notification again.
// Requires: invites:write scope
func (s *Session) ResendInvite(ctx context.Context, inviteID string) (*ResendInviteResponse, error) {
	var out ResendInviteResponse
	path := "/v1/invites/" + url.PathEscape(inviteID) + "/resend"
	if err := s.sendJSON(ctx, http.MethodPost, path, struct{}{}, &out, http.StatusOK, "invites:write"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmInvite consumes an invite for the session's email. Confirming an
// invite that is already used reports AlreadyUsed rather than failing.
// Requires: profile:read scope
func (s *Session) ConfirmInvite(ctx context.Context, token string) (*ConfirmInviteResponse, error) {
	var out ConfirmInviteResponse
	req := ConfirmInviteRequest{Token: token}
	if err := s.sendJSON(ctx, http.MethodPost, "/v1/invites/confirm", req, &out, http.StatusOK, "profile:read"); err != nil {
		return nil, err
	}
	return &out, nil
}
