// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package subscription implements the channel subscription graph.

A subscription is a directed edge from a subscriber to a channel, both of
which are user accounts. The edge is unique per pair and toggled rather than
separately created and deleted.
*/
package subscription

import "time"

// # Domain Entities

// Subscription represents one subscriber following one channel.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber_id"`
	ChannelID    string    `json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Status summarizes a channel's subscription state for a viewer.
type Status struct {
	ChannelID       string `json:"channel_id"`
	SubscriberCount int    `json:"subscriber_count"`
	IsSubscribed    bool   `json:"is_subscribed"`
}

// # Field Identifiers

const (
	FieldChannelID  = "channel_id"
	FieldSubscribed = "subscribed"
)
