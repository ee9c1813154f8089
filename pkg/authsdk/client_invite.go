package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// VerifyInvite reports the state of an invite token without changing it.
// Unknown tokens are reported as status not_found, not as an error.
func (c *SDKClient) VerifyInvite(ctx context.Context, token string) (*VerifyInviteResponse, error) {
	q := url.Values{"token": {token}}
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/invites/verify?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var out VerifyInviteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AutoLogin makes sure the invitee has an account. It does not consume the
// invite; follow it with LoginWithInvite.
func (c *SDKClient) AutoLogin(ctx context.Context, req AutoLoginRequest) (*AutoLoginResponse, error) {
	var out AutoLoginResponse
	if err := c.postJSON(ctx, "/v1/invites/auto-login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvite creates a password account for the invitee and consumes
// the invite.
func (c *SDKClient) AcceptInvite(ctx context.Context, req AcceptInviteRequest) (*AcceptInviteResponse, error) {
	var out AcceptInviteResponse
	if err := c.postJSON(ctx, "/v1/invites/accept", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
