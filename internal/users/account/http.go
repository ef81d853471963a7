// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements profile management HTTP endpoints.
type Handler struct {
	accountService *Service
	stagingDir     string
}

// NewHandler constructs a new [Handler] with its service dependency and the
// local directory where multipart uploads are staged.
func NewHandler(service *Service, stagingDir string) *Handler {
	return &Handler{accountService: service, stagingDir: stagingDir}
}

// Routes returns a [chi.Router] configured with profile-specific routes.
//
// # Endpoints
//   - GET   /current-user   : Returns the authenticated user's profile.
//   - PATCH /update-account : Updates descriptive profile fields.
//   - PATCH /avatar         : Replaces the avatar image.
//   - PATCH /cover-image    : Replaces the cover image.
//   - GET   /c/{username}   : Public channel profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/c/{username}", handler.channelProfile)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/current-user", handler.currentUser)
		r.Patch("/update-account", handler.updateDetails)
		r.Patch("/avatar", handler.updateAvatar)
		r.Patch("/cover-image", handler.updateCoverImage)
	})

	return router
}

// # Request Payloads

type updateDetailsRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

/*
CurrentUser returns the authenticated user's private profile.

GET /api/v1/users/current-user

Response:
  - 200: User: Profile of the session owner
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Current user fetched successfully")
}

/*
UpdateDetails applies partial changes to the profile's descriptive fields.

PATCH /api/v1/users/update-account

Request:
  - Body: updateDetailsRequest (FullName, Email; both optional, at least one required)

Response:
  - 200: User: Updated profile
  - 400: ErrValidation: Empty payload or invalid email
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) updateDetails(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateDetailsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Custom(auth.FieldFullName, input.FullName == nil && input.Email == nil, "at least one field is required")
	if input.FullName != nil {
		validator.Required(auth.FieldFullName, *input.FullName)
	}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).Email(auth.FieldEmail, *input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateDetails(request.Context(), userID, UpdateDetailsInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Account details updated successfully")
}

/*
UpdateAvatar replaces the authenticated user's avatar image.

PATCH /api/v1/users/avatar

Request:
  - Multipart file: avatar (required)

Response:
  - 200: User: Updated profile
  - 400: ErrValidation: Missing file
  - 502: ErrUploadFailed: Media store rejected the upload
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, auth.FieldAvatar, handler.accountService.UpdateAvatar,
		"Avatar updated successfully")
}

/*
UpdateCoverImage replaces the authenticated user's cover image.

PATCH /api/v1/users/cover-image

Request:
  - Multipart file: cover_image (required)

Response:
  - 200: User: Updated profile
  - 400: ErrValidation: Missing file
  - 502: ErrUploadFailed: Media store rejected the upload
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, auth.FieldCoverImage, handler.accountService.UpdateCoverImage,
		"Cover image updated successfully")
}

// updateImage stages the uploaded file, delegates to the given service
// mutation, and removes the staged file after the attempt.
func (handler *Handler) updateImage(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	update func(ctx context.Context, userID, localPath string) (*auth.User, error),
	successMessage string,
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	localPath, err := requestutil.StageFormFile(request, field, handler.stagingDir, constants.MaxImageUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if localPath == "" {
		respond.Error(writer, request, validate.RequiredError(field, "file is required"))
		return
	}

	defer media.CleanupLocal(ctxutil.GetLogger(request.Context()), localPath)

	user, err := update(request.Context(), userID, localPath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, successMessage)
}

/*
ChannelProfile returns the public profile of a channel.

GET /api/v1/users/c/{username}

Response:
  - 200: User: Public channel profile
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) channelProfile(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.ID(request, "username")

	if username == "" {
		respond.Error(writer, request, validate.RequiredError("username", "is required"))
		return
	}

	user, err := handler.accountService.ChannelProfile(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Channel profile fetched successfully")
}
