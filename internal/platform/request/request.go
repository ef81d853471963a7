// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, common body
decoding patterns, and multipart file staging, ensuring consistent error
handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AccessClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AccessClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AccessClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}

// # Multipart File Staging

/*
StageFormFile copies a multipart form file to a temporary path under stagingDir.

Description: The staged file is the unit the media pipeline operates on; the
caller (or the upload transaction) is responsible for removing it after the
upload attempt, success or failure.

Parameters:
  - request: *http.Request (multipart/form-data)
  - field: string (form field name)
  - stagingDir: string (directory for temp files, created if absent)
  - maxBytes: int64 (upper bound for the payload size)

Returns:
  - string: Local path of the staged file, or "" if the field is absent
  - error: Validation or filesystem failures
*/
func StageFormFile(request *http.Request, field, stagingDir string, maxBytes int64) (string, error) {
	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", validate.RequiredError(field, "Must be a valid file upload")
	}
	defer file.Close()

	if header.Size > maxBytes {
		return "", validate.RequiredError(field, "File exceeds the maximum allowed size")
	}

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", apperr.Internal(err)
	}

	// Keep the client's extension so the media store can infer content type.
	pattern := "upload-*" + filepath.Ext(header.Filename)
	staged, err := os.CreateTemp(stagingDir, pattern)
	if err != nil {
		return "", apperr.Internal(err)
	}

	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		_ = os.Remove(staged.Name())
		return "", apperr.Internal(err)
	}

	if err := staged.Close(); err != nil {
		_ = os.Remove(staged.Name())
		return "", apperr.Internal(err)
	}

	return staged.Name(), nil
}

// ParseMultipart ensures the multipart form is parsed with the platform's
// standard in-memory bound. Safe to call before [StageFormFile].
func ParseMultipart(request *http.Request) error {
	if err := request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		return apperr.ValidationError("Invalid multipart payload")
	}
	return nil
}
