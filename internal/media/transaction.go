// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"context"
	"log/slog"
	"os"

	"github.com/vidora/vidora/internal/platform/apperr"
)

// # Asset Replacement

/*
Replace swaps a stored asset for a newly staged one without ever
leaving the owning record pointing at a missing object.

The ordering is upload first, commit second, delete old last. An upload
failure aborts before anything is committed, so the caller can retry. A
commit failure removes the just-uploaded object so no orphan survives
the aborted swap. Once the commit succeeds the operation is a success:
a failure deleting the replaced asset only leaks an unreferenced object
and is logged, never rolled back.

Parameters:
  - ctx: request-scoped context for the store calls.
  - store: backing media store.
  - logger: structured logger for leak reporting.
  - newLocalPath: staged local file to upload. Must not be empty.
  - oldURL: URL of the asset being replaced, empty when none exists.
  - commit: persists the new asset URL on the owning record.

Returns:
  - *Asset: the uploaded asset after a successful commit.
  - error: *apperr.AppError on validation, upload, or commit failure.
*/
func Replace(
	ctx context.Context,
	store Store,
	logger *slog.Logger,
	newLocalPath string,
	oldURL string,
	commit func(asset *Asset) error,
) (*Asset, error) {
	if newLocalPath == "" {
		return nil, apperr.ValidationError("No file was uploaded")
	}

	asset, err := store.Upload(ctx, newLocalPath)
	if err != nil {
		return nil, err
	}

	if err := commit(asset); err != nil {
		// The record still points at the old asset; remove the new
		// object so the aborted swap leaves nothing behind.
		if deleteErr := store.Delete(ctx, asset.URL); deleteErr != nil {
			logger.Error("media_replace_orphaned_asset",
				slog.String("asset_url", asset.URL),
				slog.Any("error", deleteErr),
			)
		}
		return nil, err
	}

	if oldURL != "" {
		if deleteErr := store.Delete(ctx, oldURL); deleteErr != nil {
			logger.Warn("media_replace_old_asset_leaked",
				slog.String("asset_url", oldURL),
				slog.Any("error", deleteErr),
			)
		}
	}
	return asset, nil
}

// CleanupLocal removes staged upload files. Missing files are fine;
// anything else is logged and otherwise ignored, staging directories
// are swept periodically anyway.
func CleanupLocal(logger *slog.Logger, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("media_staged_file_cleanup_failed",
				slog.String("path", path),
				slog.Any("error", err),
			)
		}
	}
}
