// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the subscription toggle and read paths.
type Service struct {
	subscriptionRepository Repository
	userRepository         auth.UserRepository
	logger                 *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(subscriptionRepo Repository, userRepo auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{
		subscriptionRepository: subscriptionRepo,
		userRepository:         userRepo,
		logger:                 logger,
	}
}

// # Subscription Management

/*
Toggle flips the subscription state between the subscriber and the channel.

Description: An existing edge is removed; a missing one is created. Users
cannot subscribe to their own channel, and the channel must be a real
account.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: The resulting state (true means now subscribed)
  - error: Validation, not found, or storage failures
*/
func (service *Service) Toggle(context context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == channelID {
		return false, apperr.ValidationError("You cannot subscribe to your own channel")
	}

	// The channel must resolve to an existing account.
	if _, err := service.userRepository.FindByID(context, channelID); err != nil {
		return false, apperr.NotFound("Channel")
	}

	removed, err := service.subscriptionRepository.Delete(context, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("subscription_service_toggle_delete_failed: %w", err)
	}
	if removed {
		service.logger.Info("channel_unsubscribed",
			slog.String("subscriber_id", subscriberID),
			slog.String("channel_id", channelID),
		)
		return false, nil
	}

	edge := &Subscription{
		ID:           uuidv7.New(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
	if err := service.subscriptionRepository.Create(context, edge); err != nil {
		// A raced concurrent toggle already created the edge. The desired
		// state holds either way.
		if apperr.IsConflict(err) {
			return true, nil
		}
		return false, fmt.Errorf("subscription_service_toggle_create_failed: %w", err)
	}

	service.logger.Info("channel_subscribed",
		slog.String("subscriber_id", subscriberID),
		slog.String("channel_id", channelID),
	)

	return true, nil
}

/*
StatusForChannel returns the subscriber count of a channel plus whether the
given viewer follows it.

Parameters:
  - context: context.Context
  - channelID: string
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *Status: Count and viewer relationship
  - error: Not found or storage failures
*/
func (service *Service) StatusForChannel(context context.Context, channelID, viewerID string) (*Status, error) {
	if _, err := service.userRepository.FindByID(context, channelID); err != nil {
		return nil, apperr.NotFound("Channel")
	}

	count, err := service.subscriptionRepository.CountForChannel(context, channelID)
	if err != nil {
		return nil, fmt.Errorf("subscription_service_count_failed: %w", err)
	}

	status := &Status{
		ChannelID:       channelID,
		SubscriberCount: count,
	}

	if viewerID != "" {
		subscribed, err := service.subscriptionRepository.Exists(context, viewerID, channelID)
		if err != nil {
			return nil, fmt.Errorf("subscription_service_exists_failed: %w", err)
		}
		status.IsSubscribed = subscribed
	}

	return status, nil
}
