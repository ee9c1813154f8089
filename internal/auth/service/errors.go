package service

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInviteNotFound         = errors.New("invite not found")
	ErrInviteAlreadyUsed      = errors.New("invite has already been used")
	ErrInviteExpired          = errors.New("invite has expired")
	ErrInviteEmailMismatch    = errors.New("invite was issued to a different email")
	ErrInviteTokenUnavailable = errors.New("invite token cannot be recovered with the current master key")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("an account already exists for this email")
	ErrSignupNotAllowed   = errors.New("signup not allowed for this role")
	ErrUserNotFound       = errors.New("user not found")

	ErrCourseNotFound = errors.New("course not found")
	ErrNotCourseOwner = errors.New("not the owner of this course")
	ErrNotTeacher     = errors.New("only teachers can create courses")
)

var tracer = otel.Tracer("github.com/aussiebroadwan/lectern/internal/auth/service")

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
