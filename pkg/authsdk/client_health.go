package authsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getJSON(ctx, "/livez", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service can reach its database and sign
// sessions. A degraded service answers 503, returned as an *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getJSON(ctx, "/readyz", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetJWKS retrieves the public keys that verify session tokens.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var jwks JWKSResponse
	if err := c.getJSON(ctx, "/.well-known/jwks.json", &jwks); err != nil {
		return nil, err
	}
	return &jwks, nil
}

func (c *SDKClient) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, http.StatusOK)
}
