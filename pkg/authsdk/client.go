package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the lectern service. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// CheckScopes makes a Session refuse requests it lacks the scopes for
	// before calling the server. Disable it to exercise server-side checks.
	// Default: true
	CheckScopes bool
}

// NewSDKClient creates a new client with scope checking enabled.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		CheckScopes: true,
	}
}

// Login authenticates with a password or an invite token and returns a
// session. Invite logins consume the invite.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var out SessionResponse
	if err := c.postJSON(ctx, "/v1/sessions", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &out), nil
}

// LoginWithPassword is Login in password mode.
func (c *SDKClient) LoginWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return c.Login(ctx, LoginRequest{Email: email, Password: password})
}

// LoginWithInvite is Login in invite mode.
func (c *SDKClient) LoginWithInvite(ctx context.Context, email, token string) (*Session, error) {
	return c.Login(ctx, LoginRequest{Email: email, InviteToken: token})
}

// Register creates a password account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.postJSON(ctx, "/v1/users", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewSessionFromToken wraps an access token obtained elsewhere.
func (c *SDKClient) NewSessionFromToken(accessToken, scope string, expiresIn int) *Session {
	return newSession(c, &SessionResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Scope:       scope,
	})
}

func (c *SDKClient) postJSON(ctx context.Context, path string, in, out any, expectedStatus int) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, expectedStatus)
}
