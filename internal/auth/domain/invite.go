package domain

import "time"

// InviteState is derived from UsedAt and ExpiresAt, it is never stored.
type InviteState string

const (
	InviteStatePending  InviteState = "pending"
	InviteStateConsumed InviteState = "consumed"
	InviteStateExpired  InviteState = "expired"
)

type Invite struct {
	ID          string
	Email       string
	CourseID    string
	TokenHash   string // cryptox.FingerprintToken of the raw token
	TokenSealed []byte // raw token sealed with the master key
	CreatedBy   string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	UsedAt      *time.Time // nil while pending; set once, never cleared
}

// IsUsed reports whether the invite has been consumed.
func (i Invite) IsUsed() bool { return i.UsedAt != nil }

// IsExpiredAt reports whether now is at or past the expiry.
func (i Invite) IsExpiredAt(now time.Time) bool { return !now.Before(i.ExpiresAt) }

// StateAt classifies the invite. Consumed wins over expired so an invite
// used before it lapsed keeps reporting as used.
func (i Invite) StateAt(now time.Time) InviteState {
	switch {
	case i.IsUsed():
		return InviteStateConsumed
	case i.IsExpiredAt(now):
		return InviteStateExpired
	default:
		return InviteStatePending
	}
}

// InviteCounts is a snapshot of invites per state.
type InviteCounts struct {
	Pending  int64
	Consumed int64
	Expired  int64
}
