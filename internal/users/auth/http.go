// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
HTTP delivery layer for the authentication lifecycle.

The handler acts as a thin mediation layer between the web and domain
services:

  - Protocol: Standard RESTful JSON interface; registration is multipart
    because it carries the avatar and cover image files.
  - Security: Issues and clears the access/refresh token cookie pair.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, cookies, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points (Registration,
// Login, Logout, Refresh, Password Change).
type Handler struct {
	authService *Service
	stagingDir  string
}

// NewHandler constructs a new [Handler] with its service dependency and the
// local directory where multipart uploads are staged.
func NewHandler(service *Service, stagingDir string) *Handler {
	return &Handler{authService: service, stagingDir: stagingDir}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register      : Creates a new account (multipart, avatar required).
//   - POST /login         : Authenticates and sets the token cookie pair.
//   - POST /refresh-token : Rotates the refresh token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Description: Parses the multipart form, stages the avatar (required) and
cover image (optional) to local disk, validates input, and enrolls the
member. Staged files are removed after the attempt regardless of outcome.

Request:
  - Multipart fields: username, email, full_name, password
  - Multipart files: avatar (required), cover_image (optional)

Response:
  - 201: User: Created user profile (password and session fields omitted)
  - 400: ErrValidation: Bad input or missing avatar
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	username := request.FormValue(FieldUsername)
	email := request.FormValue(FieldEmail)
	fullName := request.FormValue(FieldFullName)
	password := request.FormValue(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldFullName, fullName).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatarPath, err := requestutil.StageFormFile(request, FieldAvatar, handler.stagingDir, constants.MaxImageUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if avatarPath == "" {
		respond.Error(writer, request, validate.RequiredError(FieldAvatar, "file is required"))
		return
	}

	coverImagePath, err := requestutil.StageFormFile(request, FieldCoverImage, handler.stagingDir, constants.MaxImageUploadBytes)
	if err != nil {
		media.CleanupLocal(ctxutil.GetLogger(request.Context()), avatarPath)
		respond.Error(writer, request, err)
		return
	}

	defer media.CleanupLocal(ctxutil.GetLogger(request.Context()), avatarPath, coverImagePath)

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:       username,
		Email:          email,
		FullName:       fullName,
		Password:       password,
		AvatarPath:     avatarPath,
		CoverImagePath: coverImagePath,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Description: Verifies credentials, issues the access/refresh token pair,
persists the refresh token hash, and injects both tokens as secure cookies.
The tokens are also returned in the body for non-browser clients.

Request:
  - Body: loginRequest (Username or Email, Password)

Response:
  - 200: Session: Tokens and User profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	login := input.Username
	if login == "" {
		login = input.Email
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setAuthCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldUser:         session.User,
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
	}, "User logged in successfully")
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Description: Clears the stored refresh token hash and expires the security
cookies on the client. Safe to call repeatedly.

Response:
  - 200: Success: Session terminated
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearAuthCookies(writer)

	respond.OK(writer, nil, "User logged out successfully")
}

/*
Refresh rotates the session using a valid refresh token.

POST /api/v1/users/refresh-token

Description: Accepts the refresh token from the cookie or the request body,
verifies it against both its signature and the stored session, and issues a
rotated token pair.

Response:
  - 200: Session: New token credentials
  - 401: ErrUnauthorized: Missing, invalid, or revoked refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := refreshTokenFromRequest(request)
	if refreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setAuthCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
	}, "Access token refreshed successfully")
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/users/change-password

Description: Verifies the current password before applying the new one. The
confirmation field must match the new password. On success, access tokens
issued before the change are invalidated.

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword, ConfirmPassword)

Response:
  - 200: Success: Password changed
  - 400: ErrValidation: Weak password or confirmation mismatch
  - 401: ErrUnauthorized: Current password incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength).
		Custom(FieldConfirmPassword, input.ConfirmPassword != input.NewPassword, "must match the new password")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Password changed successfully")
}

// # Cookie Helpers

// setAuthCookies writes the access and refresh tokens as HttpOnly cookies.
func setAuthCookies(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    session.AccessToken,
		Path:     constants.AuthCookiePath,
		Expires:  session.AccessTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.AuthCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookies expires both security cookies on the client.
func clearAuthCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.AuthCookiePath,
			MaxAge:   -1,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// refreshTokenFromRequest reads the refresh token from the cookie, falling
// back to the JSON body for non-browser clients.
func refreshTokenFromRequest(request *http.Request) string {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err == nil {
		return input.RefreshToken
	}

	return ""
}
