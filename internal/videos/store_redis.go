// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vidora/vidora/internal/platform/constants"
)

// # View Counter

// RedisViewCounter implements the ViewCounter interface on a Redis client.
//
// Counters survive restarts but are deliberately decoupled from the
// catalogue rows: a hot watch path bumps one Redis key instead of writing to
// Postgres on every request.
type RedisViewCounter struct {
	client *redis.Client
}

// NewViewCounter creates a Redis-backed view counter.
func NewViewCounter(client *redis.Client) *RedisViewCounter {
	return &RedisViewCounter{client: client}
}

// key builds the counter key for a video.
func (counter *RedisViewCounter) key(videoID string) string {
	return constants.RedisPrefixVideoViews + videoID
}

/*
Increment bumps the view count for a video and returns the new value.

Parameters:
  - context: context.Context
  - videoID: string

Returns:
  - int64: Count after the increment
  - error: Redis failures
*/
func (counter *RedisViewCounter) Increment(context context.Context, videoID string) (int64, error) {
	value, err := counter.client.Incr(context, counter.key(videoID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_view_counter_incr_failed: %w", err)
	}
	return value, nil
}

/*
Get returns the current view count for a video.

Parameters:
  - context: context.Context
  - videoID: string

Returns:
  - int64: Current count; zero for a never-watched video
  - error: Redis failures
*/
func (counter *RedisViewCounter) Get(context context.Context, videoID string) (int64, error) {
	value, err := counter.client.Get(context, counter.key(videoID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_view_counter_get_failed: %w", err)
	}
	return value, nil
}

/*
GetMany returns view counts for a batch of videos in one MGET round trip.

Parameters:
  - context: context.Context
  - videoIDs: []string

Returns:
  - map[string]int64: Counts keyed by video ID; missing keys mean zero
  - error: Redis failures
*/
func (counter *RedisViewCounter) GetMany(context context.Context, videoIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil
	}

	keys := make([]string, len(videoIDs))
	for i, id := range videoIDs {
		keys[i] = counter.key(id)
	}

	values, err := counter.client.MGet(context, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_view_counter_mget_failed: %w", err)
	}

	for i, raw := range values {
		if raw == nil {
			continue
		}
		if text, ok := raw.(string); ok {
			if value, err := strconv.ParseInt(text, 10, 64); err == nil {
				counts[videoIDs[i]] = value
			}
		}
	}

	return counts, nil
}
