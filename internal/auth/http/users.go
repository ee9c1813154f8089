package http

import (
	"net/http"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

type RegisterHandler struct {
	Users *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Register
//	@Description	Creates a password account. STUDENT is the default role; TEACHER requires the operator's signup token.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"email, name, password, role, signup_token"
//	@Success		201		{object}	authsdk.UserResponse	"user_id, email, name, role, created_at"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	authsdk.ErrorResponse	"signup_not_allowed"
//	@Failure		409		{object}	authsdk.ErrorResponse	"email_taken"
//	@Router			/v1/users [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var role domain.Role
	if req.Role != "" {
		var ok bool
		if role, ok = domain.ParseRole(req.Role); !ok {
			writeBadRequest(w, "role must be TEACHER or STUDENT")
			return
		}
	}

	u, err := h.Users.Register(ctx, service.RegisterParams{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		Role:        role,
		SignupToken: req.SignupToken,
	})
	if err != nil {
		writeServiceError(w, log, err, "register user")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse(u))
}
