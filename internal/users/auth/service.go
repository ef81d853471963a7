// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Identity and access management use cases.

It handles everything from user registration and secure password hashing to
the session lifecycle built on a JWT access/refresh token pair, where the
single active refresh token is stored hashed on the account row and rotated
on every refresh.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh).
  - Repository: Abstracted interface for Postgres (Users).
  - Security: Leverages bcrypt hashing and HMAC-signed JWTs.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying security tokens.
type TokenProvider interface {
	// IssueAccessToken creates a signed short-lived JWT for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - tokenVersion: The account's current token version, embedded as a claim.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	IssueAccessToken(userID string, tokenVersion int, timeToLive time.Duration) (string, error)

	// IssueRefreshToken creates a signed long-lived JWT for the given user.
	IssueRefreshToken(userID string, timeToLive time.Duration) (string, error)

	// VerifyRefreshToken parses and validates a refresh token string.
	VerifyRefreshToken(tokenString string) (*sec.RefreshClaims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or session rotation logic must be reviewed carefully.
type Service struct {
	userRepository UserRepository
	mediaStore     media.Store
	tokenProvider  TokenProvider
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	mediaStore media.Store,
	tokenProv TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		mediaStore:     mediaStore,
		tokenProvider:  tokenProv,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member. The avatar
// is mandatory; the cover image is optional. Both paths point at staged
// local files the handler extracted from the multipart form.
type RegisterInput struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

/*
Register validates, hashes, uploads, and persists a brand new user account.

Description: Deep-enrollment of a new member. Media uploads happen before
the database write; if the write then fails, the uploaded assets are removed
so nothing is committed on partial failure.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists), upload, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Usernames are canonical lowercase for lookup and uniqueness.
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByUsername(context, username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err = service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// The avatar is required, so its upload failing aborts enrollment
	// before any record exists.
	avatar, err := service.mediaStore.Upload(context, input.AvatarPath)
	if err != nil {
		return nil, err
	}

	var coverImageURL string
	if input.CoverImagePath != "" {
		coverImage, err := service.mediaStore.Upload(context, input.CoverImagePath)
		if err != nil {
			service.discardAsset(context, avatar.URL)
			return nil, err
		}
		coverImageURL = coverImage.URL
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:            uuidv7.New(),
		Username:      username,
		Email:         email,
		FullName:      input.FullName,
		PasswordHash:  hashedPassword,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverImageURL,
	}

	// Persist the user. A failure here strands the uploaded assets, so they
	// are removed before the error propagates.
	if err := service.userRepository.Create(context, user); err != nil {
		service.discardAsset(context, avatar.URL)
		service.discardAsset(context, coverImageURL)
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// discardAsset best-effort deletes an uploaded object after a failed
// enrollment. A failure here only leaks an unreferenced object.
func (service *Service) discardAsset(context context.Context, assetURL string) {
	if assetURL == "" {
		return
	}
	if err := service.mediaStore.Delete(context, assetURL); err != nil {
		service.logger.Warn("auth_register_asset_leaked",
			slog.String("asset_url", assetURL),
			slog.Any("error", err),
		)
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// Session represents a successfully established token pair.
type Session struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity, performs constant-time password comparison,
and stores the hash of the new refresh token on the account row, displacing
any previous session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Transport-ready session credentials
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	login := strings.ToLower(strings.TrimSpace(input.Login))

	// Flexible login: look up by Username or Email.
	user, err := service.userRepository.FindByUsername(context, login)
	if err != nil {
		user, err = service.userRepository.FindByEmail(context, login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.issueSession(context, user)
	if err != nil {
		return nil, err
	}

	// Persist the new session, displacing whatever was there before.
	tokenHash := sec.HashToken(session.RefreshToken)
	if err := service.userRepository.SetRefreshToken(context, user.ID, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_login_session_failed: %w", err)
	}

	return session, nil
}

/*
Logout terminates the user's active session.

Description: Clears the stored refresh token hash so the refresh token can
never be used again. Logging out an account with no active session is a
success (idempotent operation).

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
Refresh implements the refresh token rotation mechanism.

Description: Verifies the presented refresh token against both its signature
and the stored hash, then atomically swaps the hash for the new token's. The
conditional swap means a replayed or raced token loses: only the request
holding the currently stored token can rotate.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {

	// The token must be a valid, unexpired JWT signed with the refresh secret.
	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// The presented token must also be the single active session. A token
	// displaced by a newer login or an earlier rotation fails here.
	oldHash := sec.HashToken(refreshToken)
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != oldHash {
		return nil, apperr.Unauthorized("Refresh token has been revoked")
	}

	session, err := service.issueSession(context, user)
	if err != nil {
		return nil, err
	}

	// Rotation: conditional swap so concurrent refreshes cannot both win.
	newHash := sec.HashToken(session.RefreshToken)
	if err := service.userRepository.RotateRefreshToken(context, user.ID, oldHash, newHash); err != nil {
		if err == ErrRotationConflict {
			return nil, apperr.Unauthorized("Refresh token has been revoked")
		}
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}

	return session, nil
}

// issueSession mints a fresh access/refresh token pair for the user.
func (service *Service) issueSession(context context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokenProvider.IssueAccessToken(user.ID, user.TokenVersion, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.IssueRefreshToken(user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := time.Now()
	return &Session{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(AccessTokenTTL),
		RefreshTokenExpiresAt: now.Add(RefreshTokenTTL),
		User:                  user,
	}, nil
}

// # Credential Management

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password, rejects a no-op change, and
writes the new hash. The repository bumps the token version as part of the
write, so access tokens issued before the change stop passing the request
gate's identity check.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized, validation, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change.
	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	if newPassword == oldPassword {
		return apperr.ValidationError("New password must differ from the current password")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Identity Check

/*
CheckIdentity confirms that the account behind a set of verified access
claims still exists and that the claims carry the account's current token
version. The request gate calls this on every authenticated request, which
makes a password change an immediate revocation of older access tokens.

Parameters:
  - context: context.Context
  - claims: *sec.AccessClaims

Returns:
  - error: Unauthorized when the account is gone or the version is stale
*/
func (service *Service) CheckIdentity(context context.Context, claims *sec.AccessClaims) error {
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return apperr.Unauthorized("Invalid access token")
	}

	if claims.TokenVersion != user.TokenVersion {
		return apperr.Unauthorized("Invalid access token")
	}

	return nil
}
