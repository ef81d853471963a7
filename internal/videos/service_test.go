// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/videos"
)

// # Test Doubles

// fakeRepo is an in-memory videos.Repository.
type fakeRepo struct {
	records map[string]*videos.Video

	createErr error
	listErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*videos.Video{}}
}

func (repo *fakeRepo) Create(_ context.Context, video *videos.Video) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	copied := *video
	repo.records[video.ID] = &copied
	return nil
}

func (repo *fakeRepo) FindByID(_ context.Context, id string) (*videos.Video, error) {
	if record, ok := repo.records[id]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, apperr.NotFound("Video")
}

func (repo *fakeRepo) Update(_ context.Context, video *videos.Video) error {
	if _, ok := repo.records[video.ID]; !ok {
		return apperr.NotFound("Video")
	}
	copied := *video
	repo.records[video.ID] = &copied
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := repo.records[id]; !ok {
		return apperr.NotFound("Video")
	}
	delete(repo.records, id)
	return nil
}

func (repo *fakeRepo) List(_ context.Context, filter videos.ListFilter) ([]*videos.Video, int, error) {
	if repo.listErr != nil {
		return nil, 0, repo.listErr
	}
	var results []*videos.Video
	for _, record := range repo.records {
		if filter.OwnerID != "" && record.OwnerID != filter.OwnerID {
			continue
		}
		if filter.OnlyPublished && !record.IsPublished {
			continue
		}
		copied := *record
		results = append(results, &copied)
	}
	return results, len(results), nil
}

// fakeCounter is an in-memory videos.ViewCounter.
type fakeCounter struct {
	counts map[string]int64

	failing bool
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}}
}

func (counter *fakeCounter) Increment(_ context.Context, videoID string) (int64, error) {
	if counter.failing {
		return 0, errors.New("counter backend down")
	}
	counter.counts[videoID]++
	return counter.counts[videoID], nil
}

func (counter *fakeCounter) Get(_ context.Context, videoID string) (int64, error) {
	if counter.failing {
		return 0, errors.New("counter backend down")
	}
	return counter.counts[videoID], nil
}

func (counter *fakeCounter) GetMany(_ context.Context, videoIDs []string) (map[string]int64, error) {
	if counter.failing {
		return nil, errors.New("counter backend down")
	}
	counts := make(map[string]int64, len(videoIDs))
	for _, id := range videoIDs {
		counts[id] = counter.counts[id]
	}
	return counts, nil
}

// fakeStore is an in-memory media.Store.
type fakeStore struct {
	failAfter int // Fail the (failAfter+1)-th upload; -1 never fails.

	uploads int
	deletes []string
}

func (store *fakeStore) Upload(_ context.Context, localPath string) (*media.Asset, error) {
	if store.failAfter >= 0 && store.uploads >= store.failAfter {
		return nil, apperr.UploadFailed("store down", errors.New("boom"))
	}
	store.uploads++
	return &media.Asset{
		URL:      fmt.Sprintf("https://cdn.test/asset-%d", store.uploads),
		Duration: 30.5,
	}, nil
}

func (store *fakeStore) Delete(_ context.Context, assetURL string) error {
	store.deletes = append(store.deletes, assetURL)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func newService(t *testing.T) (*videos.Service, *fakeRepo, *fakeCounter, *fakeStore) {
	t.Helper()
	repo := newFakeRepo()
	counter := newFakeCounter()
	store := &fakeStore{failAfter: -1}
	return videos.NewService(repo, counter, store, discardLogger()), repo, counter, store
}

func publish(t *testing.T, service *videos.Service, ownerID, title string) *videos.Video {
	t.Helper()
	video, err := service.Publish(context.Background(), videos.PublishInput{
		OwnerID:       ownerID,
		Title:         title,
		Description:   "a description",
		VideoPath:     "/tmp/clip.mp4",
		ThumbnailPath: "/tmp/thumb.png",
	})
	require.NoError(t, err)
	return video
}

// # Publishing

/*
TestPublish_Success verifies the media pair is uploaded, the duration is
carried over from the probe, and the record lands published.
*/
func TestPublish_Success(t *testing.T) {
	service, repo, _, store := newService(t)

	video := publish(t, service, "owner-1", "My First Upload")

	assert.Equal(t, "my-first-upload", video.Slug)
	assert.True(t, video.IsPublished)
	assert.InDelta(t, 30.5, video.Duration, 0.001)
	assert.Equal(t, 2, store.uploads)
	assert.Contains(t, repo.records, video.ID)
}

/*
TestPublish_ThumbnailUploadFails verifies the already-uploaded video object
is discarded and no record exists.
*/
func TestPublish_ThumbnailUploadFails(t *testing.T) {
	service, repo, _, store := newService(t)
	store.failAfter = 1 // Video upload succeeds, thumbnail upload fails.

	_, err := service.Publish(context.Background(), videos.PublishInput{
		OwnerID:       "owner-1",
		Title:         "Broken Upload",
		VideoPath:     "/tmp/clip.mp4",
		ThumbnailPath: "/tmp/thumb.png",
	})

	require.Error(t, err)
	assert.Equal(t, "UPLOAD_FAILED", apperr.As(err).Code)
	assert.Empty(t, repo.records)
	assert.Equal(t, []string{"https://cdn.test/asset-1"}, store.deletes)
}

/*
TestPublish_PersistFailure verifies both uploaded objects are discarded
when the catalogue write fails.
*/
func TestPublish_PersistFailure(t *testing.T) {
	service, repo, _, store := newService(t)
	repo.createErr = errors.New("connection reset")

	_, err := service.Publish(context.Background(), videos.PublishInput{
		OwnerID:       "owner-1",
		Title:         "Broken Upload",
		VideoPath:     "/tmp/clip.mp4",
		ThumbnailPath: "/tmp/thumb.png",
	})

	require.Error(t, err)
	assert.Empty(t, repo.records)
	assert.Len(t, store.deletes, 2)
}

// # Watching

/*
TestGetByID_CountsViewerViews verifies non-owner watches bump the counter
while the owner's own visits do not.
*/
func TestGetByID_CountsViewerViews(t *testing.T) {
	service, _, counter, _ := newService(t)
	video := publish(t, service, "owner-1", "Watch Me")

	watched, err := service.GetByID(context.Background(), video.ID, "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), watched.Views)

	watched, err = service.GetByID(context.Background(), video.ID, "viewer-2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), watched.Views)

	// The owner reads the count without bumping it.
	owned, err := service.GetByID(context.Background(), video.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), owned.Views)
	assert.Equal(t, int64(2), counter.counts[video.ID])
}

/*
TestGetByID_CounterOutage verifies a watch still succeeds when the counter
backend is down.
*/
func TestGetByID_CounterOutage(t *testing.T) {
	service, _, counter, _ := newService(t)
	video := publish(t, service, "owner-1", "Watch Me")
	counter.failing = true

	watched, err := service.GetByID(context.Background(), video.ID, "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), watched.Views)
}

/*
TestGetByID_DraftHidden verifies unpublished videos look nonexistent to
everyone but the owner.
*/
func TestGetByID_DraftHidden(t *testing.T) {
	service, _, counter, _ := newService(t)
	video := publish(t, service, "owner-1", "Draft")
	_, err := service.TogglePublish(context.Background(), video.ID, "owner-1")
	require.NoError(t, err)

	_, err = service.GetByID(context.Background(), video.ID, "viewer-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	// A hidden draft never counts a view.
	assert.Zero(t, counter.counts[video.ID])

	owned, err := service.GetByID(context.Background(), video.ID, "owner-1")
	require.NoError(t, err)
	assert.False(t, owned.IsPublished)
}

// # Mutations

/*
TestUpdateDetails_RegeneratesSlug verifies title changes refresh the slug
and nil fields stay untouched.
*/
func TestUpdateDetails_RegeneratesSlug(t *testing.T) {
	service, repo, _, _ := newService(t)
	video := publish(t, service, "owner-1", "Original Title")

	newTitle := "A Better Title"
	updated, err := service.UpdateDetails(context.Background(), video.ID, "owner-1", videos.UpdateInput{
		Title: &newTitle,
	})

	require.NoError(t, err)
	assert.Equal(t, "A Better Title", updated.Title)
	assert.Equal(t, "a-better-title", updated.Slug)
	assert.Equal(t, "a description", updated.Description)
	assert.Equal(t, "a-better-title", repo.records[video.ID].Slug)
}

/*
TestUpdateDetails_ReplacesThumbnail verifies the old thumbnail object is
removed after the row update commits.
*/
func TestUpdateDetails_ReplacesThumbnail(t *testing.T) {
	service, _, _, store := newService(t)
	video := publish(t, service, "owner-1", "Original Title")
	oldThumbnail := video.ThumbnailURL

	updated, err := service.UpdateDetails(context.Background(), video.ID, "owner-1", videos.UpdateInput{
		ThumbnailPath: "/tmp/new-thumb.png",
	})

	require.NoError(t, err)
	assert.NotEqual(t, oldThumbnail, updated.ThumbnailURL)
	assert.Contains(t, store.deletes, oldThumbnail)
}

/*
TestUpdateDetails_NotOwner verifies ownership is enforced and the record
stays untouched.
*/
func TestUpdateDetails_NotOwner(t *testing.T) {
	service, repo, _, _ := newService(t)
	video := publish(t, service, "owner-1", "Original Title")

	newTitle := "Hijacked"
	_, err := service.UpdateDetails(context.Background(), video.ID, "intruder", videos.UpdateInput{
		Title: &newTitle,
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Equal(t, "Original Title", repo.records[video.ID].Title)
}

/*
TestDelete_RemovesRowAndAssets verifies the row goes first and both stored
objects follow.
*/
func TestDelete_RemovesRowAndAssets(t *testing.T) {
	service, repo, _, store := newService(t)
	video := publish(t, service, "owner-1", "Short Lived")

	require.NoError(t, service.Delete(context.Background(), video.ID, "owner-1"))

	assert.Empty(t, repo.records)
	assert.ElementsMatch(t, []string{video.VideoURL, video.ThumbnailURL}, store.deletes)
}

/*
TestDelete_NotOwner verifies a non-owner delete is Forbidden and nothing is
removed.
*/
func TestDelete_NotOwner(t *testing.T) {
	service, repo, _, store := newService(t)
	video := publish(t, service, "owner-1", "Short Lived")

	err := service.Delete(context.Background(), video.ID, "intruder")

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Contains(t, repo.records, video.ID)
	assert.Empty(t, store.deletes)
}

/*
TestTogglePublish roundtrips the visibility flag.
*/
func TestTogglePublish(t *testing.T) {
	service, _, _, _ := newService(t)
	video := publish(t, service, "owner-1", "Now You See Me")

	hidden, err := service.TogglePublish(context.Background(), video.ID, "owner-1")
	require.NoError(t, err)
	assert.False(t, hidden.IsPublished)

	visible, err := service.TogglePublish(context.Background(), video.ID, "owner-1")
	require.NoError(t, err)
	assert.True(t, visible.IsPublished)
}

// # Listing

/*
TestList_DraftVisibility verifies drafts appear only in the owner's own
channel listing.
*/
func TestList_DraftVisibility(t *testing.T) {
	service, _, _, _ := newService(t)
	published := publish(t, service, "owner-1", "Public Clip")
	draft := publish(t, service, "owner-1", "Private Clip")
	_, err := service.TogglePublish(context.Background(), draft.ID, "owner-1")
	require.NoError(t, err)

	// A stranger listing the channel sees only the published clip.
	results, meta, err := service.List(context.Background(), videos.ListInput{
		OwnerID:  "owner-1",
		ViewerID: "viewer-1",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, published.ID, results[0].ID)
	assert.Equal(t, 1, meta.Total)

	// The owner sees both.
	results, meta, err = service.List(context.Background(), videos.ListInput{
		OwnerID:  "owner-1",
		ViewerID: "owner-1",
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 2, meta.Total)
}

/*
TestList_HydratesViewCounts verifies the batch counter lookup fills each
result's view count.
*/
func TestList_HydratesViewCounts(t *testing.T) {
	service, _, counter, _ := newService(t)
	video := publish(t, service, "owner-1", "Popular Clip")
	counter.counts[video.ID] = 42

	results, _, err := service.List(context.Background(), videos.ListInput{OwnerID: "owner-1", ViewerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(42), results[0].Views)
}

/*
TestList_CounterOutage verifies listings survive a counter backend outage
with zeroed counts.
*/
func TestList_CounterOutage(t *testing.T) {
	service, _, counter, _ := newService(t)
	publish(t, service, "owner-1", "Clip")
	counter.failing = true

	results, _, err := service.List(context.Background(), videos.ListInput{OwnerID: "owner-1", ViewerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Views)
}
