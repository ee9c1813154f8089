package authsdk

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrSessionExpired is returned by Session methods once the access token
// has expired. Sessions are not refreshed; log in again.
var ErrSessionExpired = errors.New("authsdk: session expired")

// Session is an authenticated session. It is safe for concurrent use.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	method      string
	expiresAt   time.Time
	scopes      map[string]bool // Granted scopes for fast lookup
}

// newSession creates a session from a login response.
func newSession(client *SDKClient, resp *SessionResponse) *Session {
	// Subtract 30 seconds buffer so requests never race the expiry
	expiresAt := time.Now().Add(time.Duration(resp.ExpiresIn)*time.Second - 30*time.Second)

	return &Session{
		client:      client,
		accessToken: resp.AccessToken,
		method:      resp.Method,
		expiresAt:   expiresAt,
		scopes:      parseScopes(resp.Scope),
	}
}

// parseScopes parses a space-delimited scope string into a map for fast lookup.
func parseScopes(scopeStr string) map[string]bool {
	parts := strings.Fields(scopeStr)
	scopes := make(map[string]bool, len(parts))
	for _, scope := range parts {
		scopes[scope] = true
	}
	return scopes
}

// validToken returns the access token unless it has expired.
func (s *Session) validToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !time.Now().Before(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// Method returns how the session was authenticated: "pwd" or "invite".
func (s *Session) Method() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.method
}

// ExpiresAt returns when the session stops being usable.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Scopes returns a copy of the current granted scopes as a slice.
func (s *Session) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopes := make([]string, 0, len(s.scopes))
	for scope := range s.scopes {
		scopes = append(scopes, scope)
	}
	return scopes
}

// HasScope returns true if the session has the specified scope.
func (s *Session) HasScope(scope string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scopes[scope]
}

// checkScopes checks if the session has all required scopes.
// Returns an error if scope checking is enabled and scopes are missing.
func (s *Session) checkScopes(required ...string) error {
	if !s.client.CheckScopes || len(required) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	for _, scope := range required {
		if !s.scopes[scope] {
			missing = append(missing, scope)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required scope(s): %s", strings.Join(missing, ", "))
	}

	return nil
}
