package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/lectern/pkg/cryptox"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

// now is truncated to the store's millisecond resolution, so a timestamp
// handed back by a write equals the one every later read reports.
func (c Clock) now() time.Time {
	t := time.Now()
	if c != nil {
		t = c()
	}
	return t.UTC().Truncate(time.Millisecond)
}

// TokenGenerator returns a new opaque invite token.
type TokenGenerator func() (string, error)

// DefaultInviteToken is 256 bits from crypto/rand, hex encoded.
func DefaultInviteToken() (string, error) {
	return cryptox.GenerateHexToken(cryptox.TokenSize256)
}

// DefaultInviteTTL is how long an invite stays pending.
const DefaultInviteTTL = 7 * 24 * time.Hour

const minPasswordLength = 8

// normalizeEmail trims and validates a bare address. Case is kept: invites
// match their email exactly.
func normalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", ErrInvalidEmail
	}
	return s, nil
}

// displayName picks the account name: the hint, else the email local part.
func displayName(hint, email string) string {
	if name := strings.TrimSpace(hint); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return "Student"
}
