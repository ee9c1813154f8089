package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// transaction can only be opened from the root.
type Store interface {
	Users() Users
	Courses() Courses
	Invites() Invites

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error, the
	// transaction is rolled back, otherwise it is committed. Inside fn only
	// tx may be used; the root store may block until the transaction ends.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches the address exactly.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. A taken email is ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string, at time.Time) error
}

type Courses interface {
	CreateCourse(ctx context.Context, c domain.Course) error
	GetCourseByID(ctx context.Context, id string) (domain.Course, error)

	// ListCoursesByOwner returns courses created by ownerID, newest first.
	ListCoursesByOwner(ctx context.Context, ownerID string) ([]domain.Course, error)
}

type Invites interface {
	// CreateInvite writes a new invite holding the pending slot for its
	// (email, course). ErrAlreadyExists when the slot or token is taken.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetInviteByTokenHash looks an invite up by token fingerprint,
	// whatever its state.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// GetPendingInvite returns the invite holding the pending slot for
	// (email, courseID). It may have expired since.
	GetPendingInvite(ctx context.Context, email, courseID string) (domain.Invite, error)

	// ReleasePendingSlot frees the slot held by an invite so a new one can
	// be issued. The invite itself is unchanged. Releasing a slot that is
	// already free, because the invite was consumed meanwhile or released
	// before, is not an error.
	ReleasePendingSlot(ctx context.Context, inviteID string) error

	// MarkInviteUsed sets used_at to at, only while used_at is NULL and the
	// invite has not expired at at. Reports whether this call set it.
	MarkInviteUsed(ctx context.Context, inviteID string, at time.Time) (bool, error)

	// ListInvitesByCourse returns every invite for a course, newest first.
	ListInvitesByCourse(ctx context.Context, courseID string) ([]domain.Invite, error)

	// HasConsumedInvite reports whether email has a used invite for courseID.
	HasConsumedInvite(ctx context.Context, courseID, email string) (bool, error)

	// CountInvitesByState classifies every invite at now.
	CountInvitesByState(ctx context.Context, now time.Time) (domain.InviteCounts, error)

	// DeleteExpiredUnusedInvites removes never-used invites that expired
	// before cutoff and returns how many went.
	DeleteExpiredUnusedInvites(ctx context.Context, cutoff time.Time) (int64, error)
}
