// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/dberr"
)

// # Subscription Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new subscription edge into users.subscription.

Description: The unique (subscriberid, channelid) constraint turns a raced
double-toggle into a Conflict instead of a duplicate edge.

Parameters:
  - context: context.Context
  - subscription: *Subscription

Returns:
  - error: Conflict or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, subscription *Subscription) error {
	const query = `
		INSERT INTO users.subscription (id, subscriberid, channelid, createdat)
		VALUES ($1, $2, $3, $4)`

	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		subscription.ID,
		subscription.SubscriberID,
		subscription.ChannelID,
		subscription.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_subscription_repo_create_failed: %w", dberr.Wrap(err, "Subscription"))
	}

	return nil
}

/*
Delete removes the edge between subscriber and channel.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: Whether an edge existed and was removed
  - error: Database errors
*/
func (repository *PostgresRepository) Delete(context context.Context, subscriberID, channelID string) (bool, error) {
	const query = "DELETE FROM users.subscription WHERE subscriberid = $1 AND channelid = $2"

	tag, err := repository.pool.Exec(context, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("postgres_subscription_repo_delete_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

/*
Exists reports whether the subscriber follows the channel.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: Edge presence
  - error: Database errors
*/
func (repository *PostgresRepository) Exists(context context.Context, subscriberID, channelID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users.subscription
			WHERE subscriberid = $1 AND channelid = $2
		)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_subscription_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
CountForChannel returns the number of subscribers a channel has.

Parameters:
  - context: context.Context
  - channelID: string

Returns:
  - int: Subscriber count
  - error: Database errors
*/
func (repository *PostgresRepository) CountForChannel(context context.Context, channelID string) (int, error) {
	const query = "SELECT COUNT(*) FROM users.subscription WHERE channelid = $1"

	var count int
	if err := repository.pool.QueryRow(context, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_subscription_repo_count_failed: %w", err)
	}

	return count, nil
}
