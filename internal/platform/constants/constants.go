// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vidora-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Generous because video publishes stream multi-megabyte multipart bodies.
	DefaultReadTimeout = 5 * time.Minute

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 5 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 5 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Sized for the slowest in-scope operation: a video upload to the media store.
	GlobalRequestTimeout = 5 * time.Minute

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "vidora.app"

	// AccessTokenCookieName is the cookie that carries the short-lived access token.
	AccessTokenCookieName = "accessToken"

	// RefreshTokenCookieName is the cookie that carries the rotating refresh token.
	RefreshTokenCookieName = "refreshToken"

	// AuthCookiePath scopes both auth cookies to the whole API surface: the
	// access token must reach every protected route, not just /users.
	AuthCookiePath = "/"
)

// # Uploads

const (
	// MaxMultipartMemory bounds the in-memory portion of multipart parsing;
	// anything larger spills to the staging directory on disk.
	MaxMultipartMemory = 32 << 20 // 32 MiB

	// MaxVideoUploadBytes is the upper bound for a single video payload.
	MaxVideoUploadBytes = 2 << 30 // 2 GiB

	// MaxImageUploadBytes is the upper bound for avatar/cover/thumbnail payloads.
	MaxImageUploadBytes = 10 << 20 // 10 MiB
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaUsers = "users"
	SchemaCore  = "core"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixVideoViews = "videos:views:"
)
