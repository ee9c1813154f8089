package http

import (
	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
)

func userResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func courseResponse(c domain.Course) authsdk.CourseResponse {
	return authsdk.CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		OwnerID:     c.OwnerID,
		CreatedAt:   c.CreatedAt,
	}
}

func inviteInfo(inv domain.Invite, state domain.InviteState, acceptanceURL string) authsdk.InviteInfo {
	return authsdk.InviteInfo{
		ID:            inv.ID,
		Email:         inv.Email,
		CourseID:      inv.CourseID,
		State:         string(state),
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		ExpiresAt:     inv.ExpiresAt,
		UsedAt:        inv.UsedAt,
		AcceptanceURL: acceptanceURL,
	}
}
