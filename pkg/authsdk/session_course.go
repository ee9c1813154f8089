package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetUserInfo retrieves the account behind the session.
// Requires: profile:read scope
func (s *Session) GetUserInfo(ctx context.Context) (*UserInfoResponse, error) {
	var out UserInfoResponse
	if err := s.getJSON(ctx, "/v1/userinfo", &out, "profile:read"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCourse creates a course owned by the session's teacher.
// Requires: courses:write scope
func (s *Session) CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseResponse, error) {
	var out CourseResponse
	if err := s.sendJSON(ctx, http.MethodPost, "/v1/courses", req, &out, http.StatusCreated, "courses:write"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCourses lists the courses the session's account owns.
// Requires: courses:read scope
func (s *Session) ListCourses(ctx context.Context) (*ListCoursesResponse, error) {
	var out ListCoursesResponse
	if err := s.getJSON(ctx, "/v1/courses", &out, "courses:read"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CourseAccess reports whether the session may view the course.
// Requires: courses:read scope
func (s *Session) CourseAccess(ctx context.Context, courseID string) (*CourseAccessResponse, error) {
	var out CourseAccessResponse
	if err := s.getJSON(ctx, "/v1/courses/"+url.PathEscape(courseID)+"/access", &out, "courses:read"); err != nil {
		return nil, err
	}
	return &out, nil
}
