// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Request gate: every protected route sits behind [Authenticate] + [RequireAuth].
//
// # Architecture
//
// Authenticate intercepts incoming HTTP requests, verifies the bearer access
// token, and resolves it against the live user record. Handlers downstream
// read the identity from the request context and never touch raw tokens.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxkey"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the sec package's
// concrete TokenService, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenStr string) (*sec.AccessClaims, error)
}

// IdentityChecker resolves verified claims against the live user record.
//
// CheckIdentity must fail when the user no longer exists or when the claims'
// token version is stale (minted before the last password change).
type IdentityChecker interface {
	CheckIdentity(ctx context.Context, claims *sec.AccessClaims) error
}

// Authenticate extracts and verifies the access token from the request.
//
// # Flow
//  1. Read the token from the 'accessToken' cookie, falling back to the
//     'Authorization: Bearer <token>' header (cookie takes precedence).
//  2. If absent, the request proceeds as anonymous ([RequireAuth] blocks it
//     on protected subtrees).
//  3. If present, verify the signature/expiry via [TokenVerifier].
//  4. Confirm the referenced user still exists via [IdentityChecker].
//  5. Inject [*sec.AccessClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, users IdentityChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr, present := extractAccessToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyAccessToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired access token"))
				return
			}

			// ── 3. Identity Resolution ────────────────────────────────────────
			// The subject must still exist; a deleted account or a stale token
			// version turns an otherwise valid token into a dead credential.
			if err := users.CheckIdentity(request.Context(), claims); err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AccessClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AccessClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AccessClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AccessClaims)
	if !ok {
		return nil
	}
	return claims
}

// extractAccessToken reads the bearer credential from the request.
//
// The HTTP-only cookie wins over the Authorization header so browser clients
// cannot be downgraded by a stray header; the header path exists for mobile
// and API clients.
func extractAccessToken(request *http.Request) (token string, present bool) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
