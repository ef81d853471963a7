// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// PostgreSQL implementation of the auth storage contracts.
//
// # Architecture
//
// The repository is strictly separated from domain logic. It implements the
// domain-defined [UserRepository] interface using the [pgxpool.Pool]
// connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/dberr"
)

// # User Repository

const userColumns = `id, username, email, fullname, passwordhash, avatarurl,
		coverimageurl, refreshtokenhash, tokenversion, createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, fullname, passwordhash, avatarurl,
			coverimageurl, tokenversion, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.CoverImageURL,
		user.TokenVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", dberr.Wrap(err, "User"))
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(context, query, id)
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication and channel
resolution. Usernames are stored lowercase, so the caller is expected to
lowercase the input.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE username = $1`

	return repository.scanOne(context, query, username)
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
Update persists mutable profile fields for an existing account.

Description: Writes full name, email, avatar, and cover image in one
statement. Credential and session columns are managed by their dedicated
methods and never touched here.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET fullname = $2, email = $3, avatarurl = $4,
			coverimageurl = NULLIF($5, ''), updatedat = $6
		WHERE id = $1`

	user.UpdatedAt = time.Now()

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.FullName,
		user.Email,
		user.AvatarURL,
		user.CoverImageURL,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", dberr.Wrap(err, "User"))
	}

	return nil
}

/*
SetRefreshToken stores the hash of the user's active refresh token.

Description: Unconditional write used at login; any previous session for this
account is displaced.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: Database connectivity errors
*/
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, userID, tokenHash string) error {
	const query = "UPDATE users.account SET refreshtokenhash = $2, updatedat = $3 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, tokenHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_refresh_token_failed: %w", err)
	}

	return nil
}

/*
RotateRefreshToken conditionally swaps the stored refresh token hash.

Description: The WHERE clause pins the previous hash, so two concurrent
refresh calls carrying the same token cannot both rotate: the loser matches
zero rows and gets [ErrRotationConflict].

Parameters:
  - context: context.Context
  - userID: string
  - oldHash: string
  - newHash: string

Returns:
  - error: ErrRotationConflict or database connectivity errors
*/
func (repository *PostgresUserRepository) RotateRefreshToken(context context.Context, userID, oldHash, newHash string) error {
	const query = `
		UPDATE users.account
		SET refreshtokenhash = $3, updatedat = $4
		WHERE id = $1 AND refreshtokenhash = $2`

	tag, err := repository.pool.Exec(context, query, userID, oldHash, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_rotate_refresh_token_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrRotationConflict
	}

	return nil
}

/*
ClearRefreshToken removes the stored refresh token hash.

Description: SQL rendition of dropping the session field. Clearing an
already-empty hash is a no-op, which keeps logout idempotent.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database connectivity errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	const query = "UPDATE users.account SET refreshtokenhash = NULL, updatedat = $2 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_token_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword replaces the password hash and bumps the token version.

Description: The version bump invalidates every access token issued before
the change; the identity check in the request gate rejects them on the next
request.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Database connectivity errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, tokenversion = tokenversion + 1, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

// scanOne runs a single-row user query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, args ...any) (*User, error) {
	user := &User{}
	var coverImageURL *string
	var refreshTokenHash *string

	err := repository.pool.QueryRow(context, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&coverImageURL,
		&refreshTokenHash,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	if coverImageURL != nil {
		user.CoverImageURL = *coverImageURL
	}
	if refreshTokenHash != nil {
		user.RefreshTokenHash = *refreshTokenHash
	}

	return user, nil
}
