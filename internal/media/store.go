// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package media owns everything related to binary assets: the object-store
client that hosts them and the replace transaction that keeps database
references and remote objects consistent.

# Architecture

  - Store: Abstracted contract for the remote object store (S3-compatible).
  - S3Store: Production implementation on the AWS SDK.
  - Replace/Publish helpers: The multi-step upload transaction with its
    partial-failure policy (see transaction.go).

The rest of the application never talks to the object store directly; it
hands local staged files to this package and receives canonical URLs back.
*/
package media

import "context"

// Asset describes a successfully uploaded remote object.
type Asset struct {
	// URL is the canonical public URL of the object.
	URL string `json:"url"`

	// Duration is the media duration in seconds for video payloads.
	// Zero for images and for containers the prober does not understand.
	Duration float64 `json:"duration,omitempty"`
}

// Store defines the contract for the remote media host.
type Store interface {

	/*
		Upload pushes a local file to the object store.

		Parameters:
		  - ctx: context.Context
		  - localPath: string (staged file on disk)

		Returns:
		  - *Asset: Canonical URL plus probed duration for videos
		  - error: apperr.UploadFailed when the store rejects the object
		    or is unreachable
	*/
	Upload(ctx context.Context, localPath string) (*Asset, error)

	/*
		Delete removes a previously uploaded object by its canonical URL.

		Description: Tolerant of "already gone" — deleting a missing object
		is a success, so retries and double-deletes are harmless.

		Parameters:
		  - ctx: context.Context
		  - assetURL: string

		Returns:
		  - error: Connectivity or authorization failures only
	*/
	Delete(ctx context.Context, assetURL string) error
}
