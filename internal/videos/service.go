// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/slug"
	"github.com/vidora/vidora/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the video lifecycle.
//
// # Ownership
//
// Every mutation checks that the caller owns the video; a mismatch is a
// Forbidden error and leaves the record untouched.
type Service struct {
	videoRepository Repository
	viewCounter     ViewCounter
	mediaStore      media.Store
	logger          *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	videoRepo Repository,
	viewCounter ViewCounter,
	mediaStore media.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		videoRepository: videoRepo,
		viewCounter:     viewCounter,
		mediaStore:      mediaStore,
		logger:          logger,
	}
}

// # Publishing Flow

// PublishInput holds the data required to publish a new video. Both file
// paths point at staged local files the handler extracted from the
// multipart form.
type PublishInput struct {
	OwnerID       string
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

/*
Publish uploads the media pair and creates the catalogue row.

Description: The video file and thumbnail are uploaded before the database
write. If any later step fails, the already-uploaded objects are removed so
a failed publish commits nothing. The duration is probed from the video
container during upload.

Parameters:
  - context: context.Context
  - input: PublishInput

Returns:
  - *Video: Created entity, published and visible
  - error: Validation, upload, or storage failures
*/
func (service *Service) Publish(context context.Context, input PublishInput) (*Video, error) {

	videoAsset, err := service.mediaStore.Upload(context, input.VideoPath)
	if err != nil {
		return nil, err
	}

	thumbnailAsset, err := service.mediaStore.Upload(context, input.ThumbnailPath)
	if err != nil {
		service.discardAsset(context, videoAsset.URL)
		return nil, err
	}

	// Time-sortable ID to prevent PG index fragmentation.
	video := &Video{
		ID:           uuidv7.New(),
		OwnerID:      input.OwnerID,
		Title:        strings.TrimSpace(input.Title),
		Slug:         slug.From(input.Title),
		Description:  input.Description,
		VideoURL:     videoAsset.URL,
		ThumbnailURL: thumbnailAsset.URL,
		Duration:     videoAsset.Duration,
		IsPublished:  true,
	}

	if err := service.videoRepository.Create(context, video); err != nil {
		service.discardAsset(context, videoAsset.URL)
		service.discardAsset(context, thumbnailAsset.URL)
		return nil, fmt.Errorf("videos_service_publish_failed: %w", err)
	}

	service.logger.Info("video_published",
		slog.String("video_id", video.ID),
		slog.String("owner_id", video.OwnerID),
	)

	return video, nil
}

// discardAsset best-effort deletes an uploaded object after a failed
// publish. A failure here only leaks an unreferenced object.
func (service *Service) discardAsset(context context.Context, assetURL string) {
	if assetURL == "" {
		return
	}
	if err := service.mediaStore.Delete(context, assetURL); err != nil {
		service.logger.Warn("video_publish_asset_leaked",
			slog.String("asset_url", assetURL),
			slog.Any("error", err),
		)
	}
}

// # Watch Path

/*
GetByID returns a single video and counts the view.

Description: An unpublished video is only visible to its owner; everyone
else sees Not Found rather than Forbidden, so drafts do not leak their
existence. Each successful fetch by a non-owner bumps the view counter.

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *Video: Hydrated entity including the current view count
  - error: Not found or storage failures
*/
func (service *Service) GetByID(context context.Context, videoID, viewerID string) (*Video, error) {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperr.NotFound("Video")
	}

	if video.OwnerID != viewerID {
		views, err := service.viewCounter.Increment(context, videoID)
		if err != nil {
			// The watch path must not fail because the counter is down.
			service.logger.Warn("video_view_count_failed",
				slog.String("video_id", videoID),
				slog.Any("error", err),
			)
		} else {
			video.Views = views
		}
		return video, nil
	}

	views, err := service.viewCounter.Get(context, videoID)
	if err == nil {
		video.Views = views
	}

	return video, nil
}

// # Catalogue Mutations

// UpdateInput defines the mutable subset of video fields. Nil pointers
// leave the field unchanged; an empty ThumbnailPath keeps the current
// thumbnail.
type UpdateInput struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

/*
UpdateDetails applies a partial update to a video's metadata.

Description: Requires ownership. A new title regenerates the slug. When a
new thumbnail is staged, it is uploaded first and the old object removed
only after the row update commits.

Parameters:
  - context: context.Context
  - videoID: string
  - ownerID: string (the caller)
  - input: UpdateInput

Returns:
  - *Video: Updated entity
  - error: Forbidden, not found, upload, or storage failures
*/
func (service *Service) UpdateDetails(context context.Context, videoID, ownerID string, input UpdateInput) (*Video, error) {
	video, err := service.requireOwned(context, videoID, ownerID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Title != nil {
		video.Title = strings.TrimSpace(*input.Title)
		video.Slug = slug.From(video.Title)
	}

	// Apply delta updates
	if input.Description != nil {
		video.Description = *input.Description
	}

	if input.ThumbnailPath != "" {
		_, err = media.Replace(context, service.mediaStore, service.logger, input.ThumbnailPath, video.ThumbnailURL,
			func(asset *media.Asset) error {
				video.ThumbnailURL = asset.URL
				return service.videoRepository.Update(context, video)
			})
		if err != nil {
			return nil, err
		}
	} else {
		if err := service.videoRepository.Update(context, video); err != nil {
			return nil, fmt.Errorf("videos_service_update_failed: %w", err)
		}
	}

	service.logger.Info("video_updated", slog.String("video_id", videoID))

	return video, nil
}

/*
Delete removes a video and its stored media.

Description: Requires ownership. The catalogue row is removed first; asset
deletion follows best-effort, because once the row is gone the video is gone
from the platform and a stranded object is only a storage leak. The view
counter is dropped alongside.

Parameters:
  - context: context.Context
  - videoID: string
  - ownerID: string (the caller)

Returns:
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) Delete(context context.Context, videoID, ownerID string) error {
	video, err := service.requireOwned(context, videoID, ownerID)
	if err != nil {
		return err
	}

	if err := service.videoRepository.Delete(context, videoID); err != nil {
		return fmt.Errorf("videos_service_delete_failed: %w", err)
	}

	service.discardAsset(context, video.VideoURL)
	service.discardAsset(context, video.ThumbnailURL)

	service.logger.Info("video_deleted",
		slog.String("video_id", videoID),
		slog.String("owner_id", ownerID),
	)

	return nil
}

/*
TogglePublish flips a video's visibility.

Parameters:
  - context: context.Context
  - videoID: string
  - ownerID: string (the caller)

Returns:
  - *Video: Updated entity
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) TogglePublish(context context.Context, videoID, ownerID string) (*Video, error) {
	video, err := service.requireOwned(context, videoID, ownerID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := service.videoRepository.Update(context, video); err != nil {
		return nil, fmt.Errorf("videos_service_toggle_publish_failed: %w", err)
	}

	service.logger.Info("video_publish_toggled",
		slog.String("video_id", videoID),
		slog.Bool("is_published", video.IsPublished),
	)

	return video, nil
}

// requireOwned resolves the video and enforces that the caller owns it.
func (service *Service) requireOwned(context context.Context, videoID, ownerID string) (*Video, error) {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if video.OwnerID != ownerID {
		return nil, apperr.Forbidden("You do not own this video")
	}

	return video, nil
}

// # Listing

// ListInput narrows a catalogue listing request.
type ListInput struct {
	OwnerID       string
	Query         string
	SortBy        string
	SortAscending bool
	ViewerID      string
	Page          pagination.Params
}

/*
List returns a page of the catalogue.

Description: Listings only show published videos, except when the caller
lists their own channel, which includes drafts. View counts are hydrated
from the counter in a single batch.

Parameters:
  - context: context.Context
  - input: ListInput

Returns:
  - []*Video: Result page
  - pagination.Meta: Page metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context, input ListInput) ([]*Video, pagination.Meta, error) {
	filter := ListFilter{
		OwnerID:       input.OwnerID,
		Query:         input.Query,
		OnlyPublished: input.OwnerID == "" || input.OwnerID != input.ViewerID,
		SortBy:        input.SortBy,
		SortAscending: input.SortAscending,
		Page:          input.Page,
	}

	results, total, err := service.videoRepository.List(context, filter)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("videos_service_list_failed: %w", err)
	}

	ids := make([]string, len(results))
	for i, video := range results {
		ids[i] = video.ID
	}

	counts, err := service.viewCounter.GetMany(context, ids)
	if err != nil {
		service.logger.Warn("video_list_view_counts_failed", slog.Any("error", err))
	} else {
		for _, video := range results {
			video.Views = counts[video.ID]
		}
	}

	return results, pagination.NewMeta(input.Page.Page, input.Page.Limit, total), nil
}
