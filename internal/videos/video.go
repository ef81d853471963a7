// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package videos implements the video catalogue of the Vidora platform.

It covers the full lifecycle of a video: publishing (upload of the media
file and its thumbnail), metadata updates, visibility toggling, deletion,
and the public listing and watch paths.

# Architecture

  - Service: Orchestrates business logic and ownership checks.
  - Repository: Postgres for the catalogue rows, Redis for the view counters.
  - Media: Object storage via the media package; the database only ever
    stores asset URLs.
*/
package videos

import "time"

// # Domain Entities

// Video is the central aggregate of the Vidora domain.
//
// # Overview
//
// It represents a single uploaded video with its descriptive metadata and
// pointers to the stored media assets. View counts live in Redis and are
// folded in at read time.
type Video struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"owner_id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"` // URL-safe identifier derived from the title.
	Description  string  `json:"description,omitempty"`
	VideoURL     string  `json:"video_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Duration     float64 `json:"duration"` // Seconds; 0 when the container could not be probed.
	IsPublished  bool    `json:"is_published"`

	// Views is hydrated from the Redis counter at read time, not stored on
	// the catalogue row.
	Views int64 `json:"views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldVideoFile   = "video_file"
	FieldThumbnail   = "thumbnail"
	FieldVideoID     = "video_id"
	FieldPublished   = "is_published"
)

// # Listing Constraints

const (
	// MaxTitleLength bounds video titles.
	MaxTitleLength = 200

	// MaxDescriptionLength bounds video descriptions.
	MaxDescriptionLength = 5000
)
