// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (Success or Error) across the entire application
// follows a strict, predictable JSON envelope structure:
//
//	success: {"statusCode": 200, "data": {...}, "message": "..."}
//	failure: {"statusCode": 401, "success": false, "message": "..."}
//
// The HTTP status line always mirrors the statusCode field, so clients can
// parse either without ambiguity.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/ctxkey"
	"github.com/vidora/vidora/pkg/pagination"
)

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Data       interface{}     `json:"data"`
	Meta       pagination.Meta `json:"meta"`
	Message    string          `json:"message"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	StatusCode int                 `json:"statusCode"`
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Details    []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data interface{}, message string) {
	JSON(writer, http.StatusOK, SuccessEnvelope{StatusCode: http.StatusOK, Data: data, Message: message})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data interface{}, message string) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{StatusCode: http.StatusCreated, Data: data, Message: message})
}

// Paginated writes a 200 OK response with paginated data and a metadata block.
func Paginated(writer http.ResponseWriter, data interface{}, metadata pagination.Meta, message string) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{
		StatusCode: http.StatusOK,
		Data:       data,
		Meta:       metadata,
		Message:    message,
	})
}

// Error converts any Go error into a standardized JSON API error response.
//
// Domain errors surface unmodified: the envelope carries the error's declared
// status code and message. Anything else is collapsed into a generic 500 so
// internal failures never leak to clients.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", getRequestIDFromContext(request)),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side or upstream issues.
	if appError.HTTPStatus >= 500 {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", getRequestIDFromContext(request)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		StatusCode: appError.HTTPStatus,
		Success:    false,
		Message:    appError.Message,
		Details:    appError.Details,
	})
}

// getLoggerFromContext extracts the per-request logger.
func getLoggerFromContext(request *http.Request) *slog.Logger {
	if logger, ok := request.Context().Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// getRequestIDFromContext extracts the X-Request-ID for log correlation.
func getRequestIDFromContext(request *http.Request) string {
	if id, ok := request.Context().Value(ctxkey.KeyRequestID).(string); ok {
		return id
	}
	return ""
}
