// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (30 days) to provide a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MinUsernameLength keeps usernames long enough to be addressable.
	MinUsernameLength = 3
)
