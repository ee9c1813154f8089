package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, email, course_id, token_hash, token_sealed, created_by, created_at, expires_at, used_at`

func scanInvite(row scanner) (domain.Invite, error) {
	var (
		inv              domain.Invite
		created, expires int64
		used             sql.NullInt64
	)
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.CourseID, &inv.TokenHash, &inv.TokenSealed,
		&inv.CreatedBy, &created, &expires, &used,
	)
	if err != nil {
		return domain.Invite{}, err
	}
	inv.CreatedAt = fromMillis(created)
	inv.ExpiresAt = fromMillis(expires)
	inv.UsedAt = mapNullMillis(used)
	return inv, nil
}

func (r *invitesRepo) getOne(ctx context.Context, where string, args ...any) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM invites WHERE `+where, args...)
	inv, err := scanInvite(row)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (`+inviteColumns+`, pending) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, 1)`,
		inv.ID, inv.Email, inv.CourseID, inv.TokenHash, inv.TokenSealed,
		inv.CreatedBy, toMillis(inv.CreatedAt), toMillis(inv.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	return r.getOne(ctx, `token_hash = ?`, hash)
}

func (r *invitesRepo) GetPendingInvite(ctx context.Context, email, courseID string) (domain.Invite, error) {
	return r.getOne(ctx, `email = ? AND course_id = ? AND pending = 1`, email, courseID)
}

func (r *invitesRepo) ReleasePendingSlot(ctx context.Context, inviteID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE invites SET pending = 0 WHERE id = ?`, inviteID)
	return err
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, inviteID string, at time.Time) (bool, error) {
	ms := toMillis(at)
	res, err := r.db.ExecContext(ctx,
		`UPDATE invites SET used_at = ?, pending = 0
		 WHERE id = ? AND used_at IS NULL AND expires_at > ?`,
		ms, inviteID, ms,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitesRepo) ListInvitesByCourse(ctx context.Context, courseID string) ([]domain.Invite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE course_id = ? ORDER BY created_at DESC, id DESC`,
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitesRepo) HasConsumedInvite(ctx context.Context, courseID, email string) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invites WHERE course_id = ? AND email = ? AND used_at IS NOT NULL)`,
		courseID, email,
	).Scan(&found)
	if err != nil {
		return false, err
	}
	return found == 1, nil
}

func (r *invitesRepo) CountInvitesByState(ctx context.Context, now time.Time) (domain.InviteCounts, error) {
	var c domain.InviteCounts
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN used_at IS NULL AND expires_at > ?1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN used_at IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN used_at IS NULL AND expires_at <= ?1 THEN 1 ELSE 0 END), 0)
		 FROM invites`,
		toMillis(now),
	).Scan(&c.Pending, &c.Consumed, &c.Expired)
	return c, err
}

func (r *invitesRepo) DeleteExpiredUnusedInvites(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invites WHERE used_at IS NULL AND expires_at < ?`,
		toMillis(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
