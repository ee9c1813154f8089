package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/pkg/idx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

type CourseService struct {
	Store store.Store
	Clock Clock
}

type CreateCourseParams struct {
	OwnerID     string
	Title       string
	Description string
}

// Create adds a course owned by a teacher.
func (s *CourseService) Create(ctx context.Context, p CreateCourseParams) (domain.Course, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return domain.Course{}, ErrInvalidRequest
	}

	owner, err := s.Store.Users().GetUserByID(ctx, p.OwnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Course{}, ErrUserNotFound
		}
		return domain.Course{}, fmt.Errorf("lookup owner: %w", err)
	}
	if owner.Role != domain.RoleTeacher {
		return domain.Course{}, ErrNotTeacher
	}

	now := s.Clock.now()
	c := domain.Course{
		ID:          idx.NewAt(now).String(),
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		OwnerID:     owner.ID,
		CreatedAt:   now,
	}
	if err := s.Store.Courses().CreateCourse(ctx, c); err != nil {
		return domain.Course{}, fmt.Errorf("create course: %w", err)
	}

	slogx.FromContext(ctx).Info("course created",
		slog.String("course_id", c.ID),
		slog.String("owner_id", c.OwnerID),
	)
	return c, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (domain.Course, error) {
	c, err := s.Store.Courses().GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Course{}, ErrCourseNotFound
		}
		return domain.Course{}, fmt.Errorf("lookup course: %w", err)
	}
	return c, nil
}

func (s *CourseService) ListOwned(ctx context.Context, ownerID string) ([]domain.Course, error) {
	courses, err := s.Store.Courses().ListCoursesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// RequireOwner returns the course when userID owns it.
func (s *CourseService) RequireOwner(ctx context.Context, courseID, userID string) (domain.Course, error) {
	return requireOwner(ctx, s.Store, courseID, userID)
}

// HasAccess reports whether the session may view the course: its owner
// always can, anyone else needs a consumed invite for their email. There is
// no enrollment table; invite history is the record.
func (s *CourseService) HasAccess(ctx context.Context, courseID string, who domain.Identity) (bool, error) {
	c, err := s.Get(ctx, courseID)
	if err != nil {
		return false, err
	}
	if c.OwnerID == who.UserID {
		return true, nil
	}

	ok, err := s.Store.Invites().HasConsumedInvite(ctx, c.ID, who.Email)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return ok, nil
}

func requireOwner(ctx context.Context, r store.Store, courseID, userID string) (domain.Course, error) {
	c, err := r.Courses().GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Course{}, ErrCourseNotFound
		}
		return domain.Course{}, fmt.Errorf("lookup course: %w", err)
	}
	if c.OwnerID != userID {
		slogx.FromContext(ctx).Warn("course owner check failed",
			slog.String("course_id", courseID),
			slog.String("user_id", userID),
		)
		return domain.Course{}, ErrNotCourseOwner
	}
	return c, nil
}
