// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Repositories funnel every pgx error through [Wrap] so that storage details
// (SQLSTATEs, row semantics) never leak past the storage layer.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidora/vidora/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - err: The raw error returned by pgx.
//   - resource: Human-readable resource name for NOT_FOUND / CONFLICT messages.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Missing rows become NOT_FOUND.
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique-constraint violations become CONFLICT. This is the backstop
	// behind the service-level duplicate checks: two racing registrations
	// both pass the pre-check, but only one survives the INSERT.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	// 3. Unknown query errors become Internal Server Errors.
	return apperr.Internal(err)
}
