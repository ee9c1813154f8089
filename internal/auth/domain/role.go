package domain

import "strings"

// Role is the account kind. Stored as its string value.
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// Session scopes.
const (
	ScopeProfileRead  = "profile:read"
	ScopeCoursesRead  = "courses:read"
	ScopeCoursesWrite = "courses:write"
	ScopeInvitesWrite = "invites:write"
)

// ParseRole accepts the role name in any case.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleTeacher:
		return RoleTeacher, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// Scopes returns the scopes a session for this role is granted.
func (r Role) Scopes() []string {
	switch r {
	case RoleTeacher:
		return []string{ScopeProfileRead, ScopeCoursesRead, ScopeCoursesWrite, ScopeInvitesWrite}
	case RoleStudent:
		return []string{ScopeProfileRead, ScopeCoursesRead}
	}
	return nil
}

func (r Role) String() string { return string(r) }
