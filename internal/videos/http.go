// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/pointer"
)

// # Definitions & Constructors

// Handler implements video catalogue HTTP endpoints.
type Handler struct {
	videoService *Service
	stagingDir   string
}

// NewHandler constructs a new [Handler] with its service dependency and the
// local directory where multipart uploads are staged.
func NewHandler(service *Service, stagingDir string) *Handler {
	return &Handler{videoService: service, stagingDir: stagingDir}
}

// Routes returns a [chi.Router] configured with video catalogue routes.
//
// # Endpoints
//   - GET    /                          : Lists published videos.
//   - GET    /{videoID}                 : Returns one video and counts the view.
//   - POST   /                          : Publishes a new video (multipart).
//   - PATCH  /{videoID}                 : Updates metadata and/or thumbnail.
//   - DELETE /{videoID}                 : Deletes a video and its media.
//   - PATCH  /toggle/publish/{videoID}  : Flips visibility.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints; the viewer identity refines visibility when present.
	router.Get("/", handler.list)
	router.Get("/{videoID}", handler.getByID)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.publish)
		r.Patch("/{videoID}", handler.update)
		r.Delete("/{videoID}", handler.delete)
		r.Patch("/toggle/publish/{videoID}", handler.togglePublish)
	})

	return router
}

/*
Publish creates a new video from a multipart upload.

POST /api/v1/videos

Request:
  - Multipart fields: title (required), description (optional)
  - Multipart files: video_file (required), thumbnail (required)

Response:
  - 201: Video: Published entity
  - 400: ErrValidation: Missing title or files
  - 502: ErrUploadFailed: Media store rejected an upload
*/
func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title := request.FormValue(FieldTitle)
	description := request.FormValue(FieldDescription)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLength).
		MaxLen(FieldDescription, description, MaxDescriptionLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoPath, err := requestutil.StageFormFile(request, FieldVideoFile, handler.stagingDir, constants.MaxVideoUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if videoPath == "" {
		respond.Error(writer, request, validate.RequiredError(FieldVideoFile, "file is required"))
		return
	}

	thumbnailPath, err := requestutil.StageFormFile(request, FieldThumbnail, handler.stagingDir, constants.MaxImageUploadBytes)
	if err != nil {
		media.CleanupLocal(ctxutil.GetLogger(request.Context()), videoPath)
		respond.Error(writer, request, err)
		return
	}
	if thumbnailPath == "" {
		media.CleanupLocal(ctxutil.GetLogger(request.Context()), videoPath)
		respond.Error(writer, request, validate.RequiredError(FieldThumbnail, "file is required"))
		return
	}

	defer media.CleanupLocal(ctxutil.GetLogger(request.Context()), videoPath, thumbnailPath)

	video, err := handler.videoService.Publish(request.Context(), PublishInput{
		OwnerID:       ownerID,
		Title:         title,
		Description:   description,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video, "Video published successfully")
}

/*
GetByID returns one video and registers the view.

GET /api/v1/videos/{videoID}

Response:
  - 200: Video: Entity with the current view count
  - 404: ErrNotFound: Unknown or unpublished video
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")

	validator := &validate.Validator{}
	validator.Required(FieldVideoID, videoID).UUID(FieldVideoID, videoID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	video, err := handler.videoService.GetByID(request.Context(), videoID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video fetched successfully")
}

/*
Update applies a partial update to a video's metadata.

PATCH /api/v1/videos/{videoID}

Request:
  - Multipart fields: title, description (both optional)
  - Multipart file: thumbnail (optional)

Response:
  - 200: Video: Updated entity
  - 403: ErrForbidden: Caller does not own the video
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.ID(request, "videoID")

	validator := &validate.Validator{}
	validator.Required(FieldVideoID, videoID).UUID(FieldVideoID, videoID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := UpdateInput{}
	if request.Form.Has(FieldTitle) {
		title := request.FormValue(FieldTitle)
		fieldValidator := &validate.Validator{}
		fieldValidator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
		if err := fieldValidator.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.Title = pointer.To(title)
	}
	if request.Form.Has(FieldDescription) {
		input.Description = pointer.To(request.FormValue(FieldDescription))
	}

	thumbnailPath, err := requestutil.StageFormFile(request, FieldThumbnail, handler.stagingDir, constants.MaxImageUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ThumbnailPath = thumbnailPath

	if thumbnailPath != "" {
		defer media.CleanupLocal(ctxutil.GetLogger(request.Context()), thumbnailPath)
	}

	video, err := handler.videoService.UpdateDetails(request.Context(), videoID, ownerID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video updated successfully")
}

/*
Delete removes a video and its stored media.

DELETE /api/v1/videos/{videoID}

Response:
  - 200: Success: Video deleted
  - 403: ErrForbidden: Caller does not own the video
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.ID(request, "videoID")

	validator := &validate.Validator{}
	validator.Required(FieldVideoID, videoID).UUID(FieldVideoID, videoID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.videoService.Delete(request.Context(), videoID, ownerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Video deleted successfully")
}

/*
TogglePublish flips a video's visibility.

PATCH /api/v1/videos/toggle/publish/{videoID}

Response:
  - 200: Video: Updated entity
  - 403: ErrForbidden: Caller does not own the video
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) togglePublish(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.ID(request, "videoID")

	validator := &validate.Validator{}
	validator.Required(FieldVideoID, videoID).UUID(FieldVideoID, videoID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.TogglePublish(request.Context(), videoID, ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Publish status toggled successfully")
}

/*
List returns a page of published videos.

GET /api/v1/videos?page=&limit=&query=&sort_by=&sort_order=&user_id=

Response:
  - 200: []Video + pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	results, meta, err := handler.videoService.List(request.Context(), ListInput{
		OwnerID:       queryParams.Get("user_id"),
		Query:         queryParams.Get("query"),
		SortBy:        queryParams.Get("sort_by"),
		SortAscending: queryParams.Get("sort_order") == "asc",
		ViewerID:      viewerID,
		Page:          pagination.FromRequest(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, results, meta, "Videos fetched successfully")
}
