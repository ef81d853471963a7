// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package account implements profile management for authenticated users.

It covers the read side of the private profile plus mutations of the
account's descriptive fields and media (avatar, cover image). Identity and
session concerns stay in the auth package; this package only touches what a
signed-in member can change about themselves.
*/
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user profiles.
type Service struct {
	userRepository auth.UserRepository
	mediaStore     media.Store
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo auth.UserRepository, mediaStore media.Store, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		mediaStore:     mediaStore,
		logger:         logger,
	}
}

// # Profile Management

/*
CurrentUser retrieves the full private profile of the authenticated user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_current_user_failed: %w", err)
	}
	return user, nil
}

// UpdateDetailsInput defines the mutable descriptive profile fields.
type UpdateDetailsInput struct {
	FullName *string
	Email    *string
}

/*
UpdateDetails applies a partial set of changes to the user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. Changing the email to one
already registered surfaces as a Conflict.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateDetailsInput

Returns:
  - *auth.User: The updated user profile
  - error: Conflict, update, or storage failures
*/
func (service *Service) UpdateDetails(context context.Context, userID string, input UpdateDetailsInput) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	// Apply delta updates
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if _, err := service.userRepository.FindByEmail(context, email); err == nil {
				return nil, apperr.Conflict("Email is already registered")
			}
			user.Email = email
		}
	}

	// Persist changes
	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Profile Media

/*
UpdateAvatar replaces the user's avatar with a newly staged image.

Description: Uploads the new image first and only then commits the URL to
the account row; the previous avatar object is removed after the commit
succeeds. The account is never left pointing at a missing object.

Parameters:
  - context: context.Context
  - userID: string
  - localPath: string (staged local file)

Returns:
  - *auth.User: The updated user profile
  - error: Validation, upload, or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID, localPath string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_avatar_lookup_failed: %w", err)
	}

	_, err = media.Replace(context, service.mediaStore, service.logger, localPath, user.AvatarURL,
		func(asset *media.Asset) error {
			user.AvatarURL = asset.URL
			return service.userRepository.Update(context, user)
		})
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_avatar_updated", slog.String("user_id", userID))

	return user, nil
}

/*
UpdateCoverImage replaces the user's cover image with a newly staged image.

Description: Same replacement ordering as [Service.UpdateAvatar]. An account
without an existing cover image simply skips the old-asset deletion.

Parameters:
  - context: context.Context
  - userID: string
  - localPath: string (staged local file)

Returns:
  - *auth.User: The updated user profile
  - error: Validation, upload, or storage failures
*/
func (service *Service) UpdateCoverImage(context context.Context, userID, localPath string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_cover_lookup_failed: %w", err)
	}

	_, err = media.Replace(context, service.mediaStore, service.logger, localPath, user.CoverImageURL,
		func(asset *media.Asset) error {
			user.CoverImageURL = asset.URL
			return service.userRepository.Update(context, user)
		})
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_cover_image_updated", slog.String("user_id", userID))

	return user, nil
}

// # Channel Profiles

/*
ChannelProfile retrieves the public profile of a channel by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Public channel profile
  - error: Not found or execution failures
*/
func (service *Service) ChannelProfile(context context.Context, username string) (*auth.User, error) {
	user, err := service.userRepository.FindByUsername(context, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	return user, nil
}
