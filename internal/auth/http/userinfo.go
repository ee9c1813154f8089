package http

import (
	"net/http"

	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

type UserInfoHandler struct {
	Users *service.UserService
}

// ServeHTTP returns the account behind the session.
//
//	@Summary		Get user information
//	@Description	Returns information about the authenticated user. Requires 'profile:read' scope.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserInfoResponse	"user_id, email, name, role, scopes"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	// The account may have been removed since the session was issued.
	user, err := h.Users.GetUserByID(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err, "load user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserInfoResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role.String(),
		Scopes: user.Role.Scopes(),
	})
}
