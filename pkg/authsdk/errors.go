package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/lectern/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInsufficientScope  = "insufficient_scope"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeEmailTaken         = "email_taken"
	ErrorCodeSignupNotAllowed   = "signup_not_allowed"
	ErrorCodeServerError        = "server_error"

	// Invitees only ever see these three invite outcomes. Unknown tokens
	// and tokens issued to another email are both "invite_invalid".
	ErrorCodeInviteInvalid     = "invite_invalid"
	ErrorCodeInviteExpired     = "invite_expired"
	ErrorCodeInviteAlreadyUsed = "invite_already_used"

	// ErrorCodeInviteUnavailable is returned to teachers when an invite's
	// link can no longer be rebuilt (the master key changed).
	ErrorCodeInviteUnavailable = "invite_unavailable"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the error body every endpoint returns:
// {"error": code, "error_description": text}. It is written by the server
// and returned by the SDK client.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on status and code so callers can compare against the
// predefined errors with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials covers every login rejection: wrong password,
	// unknown account and unusable invite look the same.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid or expired",
	}

	ErrInsufficientScope = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientScope,
		Description: "the access token does not have the required scopes",
	}

	ErrNotCourseOwner = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "you do not own this course",
	}

	ErrNotTeacher = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "only teachers can do this",
	}

	ErrCourseNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "course not found",
	}

	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account already exists for this email, log in instead",
	}

	ErrSignupNotAllowed = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeSignupNotAllowed,
		Description: "signup is not allowed for this role",
	}

	ErrInviteInvalid = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeInviteInvalid,
		Description: "this invite link is not valid",
	}

	ErrInviteExpired = &APIError{
		StatusCode:  http.StatusGone,
		Code:        ErrorCodeInviteExpired,
		Description: "this invite has expired, ask your teacher for a new one",
	}

	ErrInviteAlreadyUsed = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeInviteAlreadyUsed,
		Description: "this invite has already been used",
	}

	ErrInviteUnavailable = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeInviteUnavailable,
		Description: "the invite link can no longer be rebuilt, issue a new invite",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
