package authsdk

import (
	"time"

	"github.com/aussiebroadwan/lectern/pkg/jwtx"
)

// ErrorResponse is the wire form of an error. Client code should use
// APIError instead.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// User Types
// ============================================================================

// RegisterRequest creates a password account. TEACHER accounts need the
// operator's signup token.
type RegisterRequest struct {
	Email       string `json:"email" example:"alice@example.com"`
	Name        string `json:"name,omitempty" example:"Alice"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty" example:"STUDENT"`
	SignupToken string `json:"signup_token,omitempty"`
}

// UserResponse describes an account.
type UserResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role" example:"STUDENT"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInfoResponse is returned from GET /v1/userinfo. Requires
// 'profile:read' scope.
type UserInfoResponse struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
}

// ============================================================================
// Session Types
// ============================================================================

// LoginRequest starts a session. A non-empty InviteToken selects invite
// login and Password is ignored; the invite is consumed on success.
type LoginRequest struct {
	Email       string `json:"email" example:"alice@example.com"`
	Password    string `json:"password,omitempty"`
	InviteToken string `json:"invite_token,omitempty"`
}

// SessionResponse carries the signed session token.
type SessionResponse struct {
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`

	// Method is how the session was authenticated: "pwd" or "invite"
	Method string `json:"method" example:"invite"`

	Scope string `json:"scope"`
}

// ============================================================================
// Course Types
// ============================================================================

type CreateCourseRequest struct {
	Title       string `json:"title" example:"Compilers"`
	Description string `json:"description,omitempty"`
}

type CourseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListCoursesResponse struct {
	Courses []CourseResponse `json:"courses"`
}

// CourseAccessResponse reports whether the session may view a course.
type CourseAccessResponse struct {
	CourseID string `json:"course_id"`
	Access   bool   `json:"access"`
}

// ============================================================================
// Invite Types
// ============================================================================

// Invite states as reported in InviteInfo.
const (
	InviteStatePending  = "pending"
	InviteStateConsumed = "consumed"
	InviteStateExpired  = "expired"
)

// Verification statuses returned from GET /v1/invites/verify.
const (
	VerifyStatusValid       = "valid"
	VerifyStatusAlreadyUsed = "already_used"
	VerifyStatusExpired     = "expired"
	VerifyStatusNotFound    = "not_found"
)

type CreateInviteRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	CourseID string `json:"course_id"`
}

// InviteInfo describes an invite. Tokens are never included; pending
// invites carry their acceptance URL instead.
type InviteInfo struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	CourseID      string     `json:"course_id"`
	State         string     `json:"state" example:"pending"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	AcceptanceURL string     `json:"acceptance_url,omitempty"`
}

// CreateInviteResponse is returned with 201 for a new invite and 200 when
// the pending invite for the same email and course was reused.
type CreateInviteResponse struct {
	Invite        InviteInfo `json:"invite"`
	AcceptanceURL string     `json:"acceptance_url"`
	Reused        bool       `json:"reused"`
}

type ListInvitesResponse struct {
	Invites []InviteInfo `json:"invites"`
}

// VerifyInviteResponse is always returned with 200; Status carries the
// outcome. Other fields are empty when Status is not_found.
type VerifyInviteResponse struct {
	Status            string     `json:"status" example:"valid"`
	Email             string     `json:"email,omitempty"`
	CourseTitle       string     `json:"course_title,omitempty"`
	CourseDescription string     `json:"course_description,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	AccountExists     bool       `json:"account_exists"`
}

// AutoLoginRequest provisions the invitee's account without consuming the
// invite. The caller then logs in with the same token.
type AutoLoginRequest struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
}

type AutoLoginResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CourseTitle string `json:"course_title"`
	Created     bool   `json:"created"`
}

// ConfirmInviteRequest consumes an invite for the session's email.
type ConfirmInviteRequest struct {
	Token string `json:"token"`
}

type ConfirmInviteResponse struct {
	InviteID string    `json:"invite_id"`
	CourseID string    `json:"course_id"`
	UsedAt   time.Time `json:"used_at"`

	// AlreadyUsed is set when the invite had been consumed before this
	// call. Confirming twice is not an error.
	AlreadyUsed bool `json:"already_used"`
}

// AcceptInviteRequest is the landing page form: the invitee picks a
// password and the invite is consumed.
type AcceptInviteRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

type AcceptInviteResponse struct {
	User        UserResponse `json:"user"`
	CourseID    string       `json:"course_id"`
	CourseTitle string       `json:"course_title"`
}

type ResendInviteResponse struct {
	InviteID      string `json:"invite_id"`
	AcceptanceURL string `json:"acceptance_url"`

	// Delivered reports whether the notification channel accepted it.
	Delivered bool `json:"delivered"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz includes Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`

	// MasterKey is "ok" or "ephemeral". An ephemeral key does not make the
	// service unready, but invite links cannot be rebuilt after a restart.
	MasterKey string `json:"master_key"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the public keys that verify session tokens.
type JWKSResponse jwtx.JWKS
