// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"context"

	"github.com/vidora/vidora/pkg/pagination"
)

// # Catalogue Data Access

// ListFilter narrows and orders a catalogue listing.
type ListFilter struct {
	// OwnerID restricts results to one channel when non-empty.
	OwnerID string
	// Query is a case-insensitive match against title and description.
	Query string
	// OnlyPublished hides unpublished videos. The owner's own listings
	// disable this to include drafts.
	OnlyPublished bool
	// SortBy is one of "created_at", "title", "duration". Unknown values
	// fall back to "created_at".
	SortBy string
	// SortAscending flips the default newest-first ordering.
	SortAscending bool

	Page pagination.Params
}

// Repository defines the data access contract for catalogue rows.
type Repository interface {

	/*
		Create persists a new video record.

		Parameters:
		  - context: context.Context
		  - video: *Video

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, video *Video) error

	/*
		FindByID returns the video with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Video: Hydrated entity
		  - error: Not found or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Video, error)

	/*
		Update persists changes to mutable video fields
		(title, slug, description, thumbnail, publish state).

		Parameters:
		  - context: context.Context
		  - video: *Video

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, video *Video) error

	/*
		Delete removes the catalogue row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Not found or persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		List returns a filtered, ordered page of the catalogue plus the
		total match count.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []*Video: Result page
		  - int: Total matches across all pages
		  - error: Retrieval failures
	*/
	List(context context.Context, filter ListFilter) ([]*Video, int, error)
}

// # View Counters

// ViewCounter tracks per-video view counts outside the catalogue rows.
type ViewCounter interface {

	/*
		Increment bumps the view count for a video and returns the new value.

		Parameters:
		  - context: context.Context
		  - videoID: string

		Returns:
		  - int64: Count after the increment
		  - error: Counter backend failures
	*/
	Increment(context context.Context, videoID string) (int64, error)

	/*
		Get returns the current view count for a video. A video that was
		never watched reports zero.

		Parameters:
		  - context: context.Context
		  - videoID: string

		Returns:
		  - int64: Current count
		  - error: Counter backend failures
	*/
	Get(context context.Context, videoID string) (int64, error)

	/*
		GetMany returns view counts for a batch of videos in one round trip.

		Parameters:
		  - context: context.Context
		  - videoIDs: []string

		Returns:
		  - map[string]int64: Counts keyed by video ID; missing keys mean zero
		  - error: Counter backend failures
	*/
	GetMany(context context.Context, videoIDs []string) (map[string]int64, error)
}
