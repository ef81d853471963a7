// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
	"errors"
)

// ErrRotationConflict reports that a conditional refresh-token swap matched no
// row: the stored hash changed between read and write, meaning another request
// already rotated (or cleared) the session.
var ErrRotationConflict = errors.New("auth: refresh token rotation conflict")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given (lowercase) username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields
		(full name, email, avatar, cover image).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		SetRefreshToken stores the hash of a freshly issued refresh token,
		replacing whatever session existed before. Used at login.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	SetRefreshToken(context context.Context, userID, tokenHash string) error

	/*
		RotateRefreshToken atomically swaps the stored refresh token hash,
		but only if the stored value still equals oldHash. A concurrent
		rotation that got there first makes this call fail with
		[ErrRotationConflict] instead of silently double-rotating.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - oldHash: string
		  - newHash: string

		Returns:
		  - error: ErrRotationConflict or persistence failures
	*/
	RotateRefreshToken(context context.Context, userID, oldHash, newHash string) error

	/*
		ClearRefreshToken removes the stored refresh token hash,
		terminating the user's session. Used at logout.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshToken(context context.Context, userID string) error

	/*
		UpdatePassword replaces the password hash and bumps the token
		version so every access token issued before the change stops
		passing the identity check.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}
