package sqlite

import (
	"context"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
)

type coursesRepo struct {
	db dbtx
}

const courseColumns = `id, title, description, owner_id, created_at`

func scanCourse(row scanner) (domain.Course, error) {
	var (
		c       domain.Course
		created int64
	)
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.OwnerID, &created); err != nil {
		return domain.Course{}, err
	}
	c.CreatedAt = fromMillis(created)
	return c, nil
}

func (r *coursesRepo) CreateCourse(ctx context.Context, c domain.Course) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (`+courseColumns+`) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Description, c.OwnerID, toMillis(c.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *coursesRepo) GetCourseByID(ctx context.Context, id string) (domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err != nil {
		return domain.Course{}, mapNotFound(err)
	}
	return c, nil
}

func (r *coursesRepo) ListCoursesByOwner(ctx context.Context, ownerID string) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
