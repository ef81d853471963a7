// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import "context"

// # Subscription Data Access

// Repository defines the data access contract for subscription edges.
type Repository interface {

	/*
		Create persists a new subscription edge.

		Parameters:
		  - context: context.Context
		  - subscription: *Subscription

		Returns:
		  - error: Conflict (edge exists) or persistence failures
	*/
	Create(context context.Context, subscription *Subscription) error

	/*
		Delete removes the edge between subscriber and channel.

		Parameters:
		  - context: context.Context
		  - subscriberID: string
		  - channelID: string

		Returns:
		  - bool: Whether an edge existed and was removed
		  - error: Persistence failures
	*/
	Delete(context context.Context, subscriberID, channelID string) (bool, error)

	/*
		Exists reports whether the subscriber follows the channel.

		Parameters:
		  - context: context.Context
		  - subscriberID: string
		  - channelID: string

		Returns:
		  - bool: Edge presence
		  - error: Retrieval failures
	*/
	Exists(context context.Context, subscriberID, channelID string) (bool, error)

	/*
		CountForChannel returns the number of subscribers a channel has.

		Parameters:
		  - context: context.Context
		  - channelID: string

		Returns:
		  - int: Subscriber count
		  - error: Retrieval failures
	*/
	CountForChannel(context context.Context, channelID string) (int, error)
}
