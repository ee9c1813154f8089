/*
Package authsdk is a Go client for the lectern HTTP API.

# SDKClient vs Session

SDKClient covers the public endpoints: health, JWKS, registration, login
and the invitee side of the invite flow. Login returns a Session, which
carries the bearer token for the authenticated endpoints.

	client := authsdk.NewSDKClient("https://lectern.example.com")

	// Teacher side
	session, err := client.LoginWithPassword(ctx, "grace@example.edu", password)
	course, err := session.CreateCourse(ctx, authsdk.CreateCourseRequest{Title: "Compilers"})
	invite, err := session.CreateInvite(ctx, authsdk.CreateInviteRequest{
		Email:    "alice@example.com",
		CourseID: course.ID,
	})

# Invite Flow

The invitee follows the acceptance URL, which carries the email and token:

	v, err := client.VerifyInvite(ctx, token)          // status: valid, expired, ...
	_, err = client.AutoLogin(ctx, authsdk.AutoLoginRequest{Token: token})
	student, err := client.LoginWithInvite(ctx, email, token) // consumes the invite

Logging in with a consumed invite fails with ErrInvalidCredentials.
AcceptInvite is the alternative for invitees who want a password.

# Scope Requirements

Each authenticated operation requires specific scopes:

  - profile:read: userinfo, confirming an invite
  - courses:read: listing courses, access checks
  - courses:write: creating courses
  - invites:write: issuing, listing and re-sending invites

Teachers get all four; students get profile:read and courses:read. Client
side scope checking is on by default; set CheckScopes to false to let the
server reject the request instead.

# Errors

Non-2xx responses are returned as *APIError and compare equal to the
predefined errors with errors.Is:

	if errors.Is(err, authsdk.ErrInviteExpired) {
		// ask the teacher for a new invite
	}

Sessions are not refreshed. Once ExpiresAt passes, methods return
ErrSessionExpired and the caller logs in again.
*/
package authsdk
