package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a session token unless configured.
const DefaultSessionTTL = 12 * time.Hour

// Claims are the session token claims shared by the auth service and
// anything that verifies its tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Email the session was authenticated for. Course access checks
	// compare this against consumed invites.
	Email string `json:"email,omitempty"`

	// Name is the display name of the account.
	Name string `json:"name,omitempty"`

	// Role is TEACHER or STUDENT.
	Role string `json:"role,omitempty"`

	// Scopes granted to the session, derived from the role.
	Scopes []string `json:"scopes,omitempty"`

	// Authentication Methods Reference:
	//	"pwd":    password login
	//	"invite": invite token login
	AMR []string `json:"amr,omitempty"`
}

// SessionParams is the input to NewSessionClaims.
type SessionParams struct {
	Subject  string
	Email    string
	Name     string
	Role     string
	Scopes   []string
	AMR      []string
	Issuer   string
	Audience []string
	TTL      time.Duration
	Now      time.Time
}

// NewSessionClaims builds claims with iat/nbf at p.Now and exp at
// p.Now+p.TTL.
func NewSessionClaims(p SessionParams) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(p.Now),
			NotBefore: jwt.NewNumericDate(p.Now),
			ExpiresAt: jwt.NewNumericDate(p.Now.Add(p.TTL)),
			ID:        NewJTI(),
		},
		Email:  p.Email,
		Name:   p.Name,
		Role:   p.Role,
		Scopes: p.Scopes,
		AMR:    p.AMR,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether scope was granted.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ValidateIssuer checks the issuer. Empty expected means any.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
// Empty expected means any.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiryAt checks exp and nbf against now with a leeway for skew.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
