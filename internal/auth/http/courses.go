package http

import (
	"net/http"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

type CoursesHandler struct {
	Courses *service.CourseService
}

// HandleCreate godoc
//
//	@Summary		Create Course
//	@Description	Creates a course owned by the calling teacher.
//	@Tags			Courses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateCourseRequest	true	"title, description"
//	@Success		201		{object}	authsdk.CourseResponse		"Created course"
//	@Failure		400		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/courses [post].
func (h *CoursesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.CreateCourseRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	c, err := h.Courses.Create(ctx, service.CreateCourseParams{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, log, err, "create course")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, courseResponse(c))
}

// HandleList godoc
//
//	@Summary		List Courses
//	@Description	Lists the courses the caller owns.
//	@Tags			Courses
//	@Produce		json
//	@Success		200	{object}	authsdk.ListCoursesResponse	"courses"
//	@Failure		401	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/courses [get].
func (h *CoursesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	courses, err := h.Courses.ListOwned(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err, "list courses")
		return
	}

	resp := authsdk.ListCoursesResponse{Courses: make([]authsdk.CourseResponse, 0, len(courses))}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, courseResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAccess godoc
//
//	@Summary		Check Course Access
//	@Description	Reports whether the caller may view the course: its owner can, and so can anyone who consumed an invite to it with the session's email.
//	@Tags			Courses
//	@Produce		json
//	@Param			id	path		string						true	"Course ID"
//	@Success		200	{object}	authsdk.CourseAccessResponse	"course_id, access"
//	@Failure		401	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/courses/{id}/access [get].
func (h *CoursesHandler) HandleAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	courseID := r.PathValue("id")
	role, _ := domain.ParseRole(claims.Role)
	access, err := h.Courses.HasAccess(ctx, courseID, domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	})
	if err != nil {
		writeServiceError(w, log, err, "check course access")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.CourseAccessResponse{CourseID: courseID, Access: access})
}
