// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package auth implements the user identity and session management layer.

It defines the core User entity together with the logic for registration,
credential verification, and the refresh-token session lifecycle.

# Architecture

This layer is the "Truth" of the system. The entities defined here have no
external dependencies and encapsulate all business rules related to user
identity. Each user carries at most one active refresh session, stored as a
hash on the account row and rotated on every refresh.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Vidora platform.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"` // Always stored lowercase.
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	PasswordHash     string    `json:"-"` // Explicitly omitted from JSON for security.
	AvatarURL        string    `json:"avatar_url"`
	CoverImageURL    string    `json:"cover_image_url,omitempty"`
	RefreshTokenHash string    `json:"-"` // Hash of the single active refresh token. Omitted for security.
	TokenVersion     int       `json:"-"` // Bumped on password change to invalidate live access tokens.
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFullName        = "full_name"
	FieldLogin           = "login"
	FieldAvatar          = "avatar"
	FieldCoverImage      = "cover_image"
	FieldOldPassword     = "old_password"
	FieldNewPassword     = "new_password"
	FieldConfirmPassword = "confirm_password"
	FieldAccessToken     = "access_token"
	FieldRefreshToken    = "refresh_token"
	FieldUser            = "user"
	FieldMessage         = "message"
)
