package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/idx"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedCourse(t *testing.T, s store.Store) (domain.User, domain.Course) {
	t.Helper()
	ctx := context.Background()

	teacher := domain.User{
		ID:           idx.New().String(),
		Email:        "grace@example.edu",
		Name:         "Grace",
		PasswordHash: "hash",
		Role:         domain.RoleTeacher,
		CreatedAt:    epoch,
		UpdatedAt:    epoch,
	}
	require.NoError(t, s.Users().CreateUser(ctx, teacher))

	course := domain.Course{
		ID:          idx.New().String(),
		Title:       "Compilers",
		Description: "Parsing to codegen",
		OwnerID:     teacher.ID,
		CreatedAt:   epoch,
	}
	require.NoError(t, s.Courses().CreateCourse(ctx, course))
	return teacher, course
}

func newInvite(email, courseID, createdBy string, expires time.Time) domain.Invite {
	tok := idx.New().String()
	return domain.Invite{
		ID:          idx.New().String(),
		Email:       email,
		CourseID:    courseID,
		TokenHash:   cryptox.FingerprintToken(tok),
		TokenSealed: []byte("sealed-" + tok),
		CreatedBy:   createdBy,
		CreatedAt:   epoch,
		ExpiresAt:   expires,
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        "ada@example.edu",
		Name:         "Ada",
		PasswordHash: "hash",
		Role:         domain.RoleStudent,
		CreatedAt:    epoch,
		UpdatedAt:    epoch,
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByEmail(ctx, "ada@example.edu")
	require.NoError(t, err)
	require.Equal(t, u, got)

	_, err = s.Users().GetUserByEmail(ctx, "ADA@example.edu")
	require.ErrorIs(t, err, store.ErrNotFound)

	dup := u
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new", epoch.Add(time.Hour)))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new", got.PasswordHash)
	require.Equal(t, epoch.Add(time.Hour), got.UpdatedAt)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x", epoch), store.ErrNotFound)
}

func TestCourses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	teacher, course := seedCourse(t, s)

	later := domain.Course{ID: idx.New().String(), Title: "Databases", OwnerID: teacher.ID, CreatedAt: epoch.Add(time.Minute)}
	require.NoError(t, s.Courses().CreateCourse(ctx, later))

	list, err := s.Courses().ListCoursesByOwner(ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, later.ID, list[0].ID)
	require.Equal(t, course.ID, list[1].ID)

	_, err = s.Courses().GetCourseByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestInvitePendingSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	teacher, course := seedCourse(t, s)

	first := newInvite("ada@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	require.NoError(t, s.Invites().CreateInvite(ctx, first))

	second := newInvite("ada@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	require.ErrorIs(t, s.Invites().CreateInvite(ctx, second), store.ErrAlreadyExists)

	t.Run("other course is a separate slot", func(t *testing.T) {
		other := domain.Course{ID: idx.New().String(), Title: "Other", OwnerID: teacher.ID, CreatedAt: epoch}
		require.NoError(t, s.Courses().CreateCourse(ctx, other))
		require.NoError(t, s.Invites().CreateInvite(ctx,
			newInvite("ada@example.edu", other.ID, teacher.ID, epoch.Add(time.Hour))))
	})

	pending, err := s.Invites().GetPendingInvite(ctx, "ada@example.edu", course.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, pending.ID)

	require.NoError(t, s.Invites().ReleasePendingSlot(ctx, first.ID))
	_, err = s.Invites().GetPendingInvite(ctx, "ada@example.edu", course.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Releasing a free slot again is a no-op.
	require.NoError(t, s.Invites().ReleasePendingSlot(ctx, first.ID))

	require.NoError(t, s.Invites().CreateInvite(ctx, second))

	// The released invite is still readable.
	again, err := s.Invites().GetInviteByTokenHash(ctx, first.TokenHash)
	require.NoError(t, err)
	require.Equal(t, first, again)
}

func TestReleaseConsumedInviteSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	teacher, course := seedCourse(t, s)

	inv := newInvite("ada@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	ok, err := s.Invites().MarkInviteUsed(ctx, inv.ID, epoch)
	require.NoError(t, err)
	require.True(t, ok)

	// A consumed invite no longer holds the slot; releasing it is harmless.
	require.NoError(t, s.Invites().ReleasePendingSlot(ctx, inv.ID))

	got, err := s.Invites().GetInviteByTokenHash(ctx, inv.TokenHash)
	require.NoError(t, err)
	require.NotNil(t, got.UsedAt)
	require.True(t, epoch.Equal(*got.UsedAt))
}

func TestMarkInviteUsed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	teacher, course := seedCourse(t, s)

	inv := newInvite("ada@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	at := epoch.Add(10 * time.Minute)
	ok, err := s.Invites().MarkInviteUsed(ctx, inv.ID, at)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Invites().MarkInviteUsed(ctx, inv.ID, at.Add(time.Minute))
	require.NoError(t, err)
	require.False(t, ok)

	got, err := s.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UsedAt)
	require.Equal(t, at, *got.UsedAt)

	// Consuming frees the slot.
	_, err = s.Invites().GetPendingInvite(ctx, inv.Email, course.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	consumed, err := s.Invites().HasConsumedInvite(ctx, course.ID, "ada@example.edu")
	require.NoError(t, err)
	require.True(t, consumed)

	consumed, err = s.Invites().HasConsumedInvite(ctx, course.ID, "bob@example.edu")
	require.NoError(t, err)
	require.False(t, consumed)
}

func TestMarkInviteUsedRefusesExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	teacher, course := seedCourse(t, s)

	inv := newInvite("ada@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	ok, err := s.Invites().MarkInviteUsed(ctx, inv.ID, epoch.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, ok)

	got, err := s.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Nil(t, got.UsedAt)
}

func TestCountAndPurge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	teacher, course := seedCourse(t, s)
	now := epoch.Add(48 * time.Hour)

	pending := newInvite("a@example.edu", course.ID, teacher.ID, now.Add(time.Hour))
	expired := newInvite("b@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	used := newInvite("c@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	for _, inv := range []domain.Invite{pending, expired, used} {
		require.NoError(t, s.Invites().CreateInvite(ctx, inv))
	}
	ok, err := s.Invites().MarkInviteUsed(ctx, used.ID, epoch.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	counts, err := s.Invites().CountInvitesByState(ctx, now)
	require.NoError(t, err)
	require.Equal(t, domain.InviteCounts{Pending: 1, Consumed: 1, Expired: 1}, counts)

	n, err := s.Invites().DeleteExpiredUnusedInvites(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	list, err := s.Invites().ListInvitesByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestWithTxRollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	teacher, course := seedCourse(t, s)

	inv := newInvite("ada@example.edu", course.ID, teacher.ID, epoch.Add(time.Hour))
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Invites().CreateInvite(ctx, inv))
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Invites().GetInviteByID(ctx, inv.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Invites().CreateInvite(ctx, inv)
	}))
	_, err = s.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
}
