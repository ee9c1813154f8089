package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
)

// writeServiceError maps service errors onto API errors. Anything it does
// not recognise is a storage or programming failure: it is logged and
// reported as server_error without detail.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)

	// Invitees see one of three plain states; a token issued to another
	// email looks the same as an unknown one.
	case errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrInviteEmailMismatch):
		authsdk.ErrInviteInvalid.WriteError(w)
	case errors.Is(err, service.ErrInviteExpired):
		authsdk.ErrInviteExpired.WriteError(w)
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		authsdk.ErrInviteAlreadyUsed.WriteError(w)
	case errors.Is(err, service.ErrInviteTokenUnavailable):
		log.Warn("invite link unavailable", slog.Any("error", err))
		authsdk.ErrInviteUnavailable.WriteError(w)

	case errors.Is(err, service.ErrInvalidEmail):
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "email is not a valid address").WriteError(w)
	case errors.Is(err, service.ErrWeakPassword):
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		authsdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrSignupNotAllowed):
		authsdk.ErrSignupNotAllowed.WriteError(w)

	case errors.Is(err, service.ErrCourseNotFound):
		authsdk.ErrCourseNotFound.WriteError(w)
	case errors.Is(err, service.ErrNotCourseOwner):
		authsdk.ErrNotCourseOwner.WriteError(w)
	case errors.Is(err, service.ErrNotTeacher):
		authsdk.ErrNotTeacher.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrInvalidToken.WriteError(w)

	default:
		log.Error("failed to "+action, slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
	}
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, desc).WriteError(w)
}
