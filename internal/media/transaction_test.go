// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
)

// fakeStore records uploads and deletions and can be told to fail either.
type fakeStore struct {
	uploadErr error
	deleteErr error

	uploads []string
	deletes []string
}

func (store *fakeStore) Upload(_ context.Context, localPath string) (*media.Asset, error) {
	if store.uploadErr != nil {
		return nil, store.uploadErr
	}
	store.uploads = append(store.uploads, localPath)
	return &media.Asset{URL: "https://cdn.test/" + filepath.Base(localPath)}, nil
}

func (store *fakeStore) Delete(_ context.Context, assetURL string) error {
	if store.deleteErr != nil {
		return store.deleteErr
	}
	store.deletes = append(store.deletes, assetURL)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

/*
TestReplace_Success verifies the full swap: upload, commit, old asset
removed.
*/
func TestReplace_Success(t *testing.T) {
	store := &fakeStore{}
	committed := ""

	asset, err := media.Replace(context.Background(), store, discardLogger(), "/tmp/new.png", "https://cdn.test/old.png",
		func(a *media.Asset) error {
			committed = a.URL
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/new.png", asset.URL)
	assert.Equal(t, asset.URL, committed)
	assert.Equal(t, []string{"https://cdn.test/old.png"}, store.deletes)
}

/*
TestReplace_NoStagedFile verifies that an empty path is a validation error
and nothing touches the store.
*/
func TestReplace_NoStagedFile(t *testing.T) {
	store := &fakeStore{}

	_, err := media.Replace(context.Background(), store, discardLogger(), "", "https://cdn.test/old.png",
		func(*media.Asset) error {
			t.Fatal("commit must not run")
			return nil
		})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Empty(t, store.uploads)
	assert.Empty(t, store.deletes)
}

/*
TestReplace_UploadFails verifies that an upload failure aborts before the
commit and leaves the old asset alone.
*/
func TestReplace_UploadFails(t *testing.T) {
	store := &fakeStore{uploadErr: apperr.UploadFailed("store down", errors.New("boom"))}

	_, err := media.Replace(context.Background(), store, discardLogger(), "/tmp/new.png", "https://cdn.test/old.png",
		func(*media.Asset) error {
			t.Fatal("commit must not run")
			return nil
		})

	require.Error(t, err)
	assert.Equal(t, "UPLOAD_FAILED", apperr.As(err).Code)
	assert.Empty(t, store.deletes)
}

/*
TestReplace_CommitFails verifies that a failed commit removes the freshly
uploaded object and keeps the old one.
*/
func TestReplace_CommitFails(t *testing.T) {
	store := &fakeStore{}
	commitErr := errors.New("row update failed")

	_, err := media.Replace(context.Background(), store, discardLogger(), "/tmp/new.png", "https://cdn.test/old.png",
		func(*media.Asset) error { return commitErr })

	require.ErrorIs(t, err, commitErr)
	// The new object is cleaned up; the old asset stays referenced.
	assert.Equal(t, []string{"https://cdn.test/new.png"}, store.deletes)
}

/*
TestReplace_OldDeleteFails verifies that a failed deletion of the replaced
asset does not fail the operation once the commit succeeded.
*/
func TestReplace_OldDeleteFails(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("object store flake")}

	asset, err := media.Replace(context.Background(), store, discardLogger(), "/tmp/new.png", "https://cdn.test/old.png",
		func(*media.Asset) error { return nil })

	require.NoError(t, err)
	assert.NotNil(t, asset)
}

/*
TestReplace_NoOldAsset verifies that a first-time upload skips the deletion
step entirely.
*/
func TestReplace_NoOldAsset(t *testing.T) {
	store := &fakeStore{}

	_, err := media.Replace(context.Background(), store, discardLogger(), "/tmp/new.png", "",
		func(*media.Asset) error { return nil })

	require.NoError(t, err)
	assert.Empty(t, store.deletes)
}

/*
TestCleanupLocal verifies staged file removal tolerates missing paths.
*/
func TestCleanupLocal(t *testing.T) {
	dir := t.TempDir()
	staged := filepath.Join(dir, "upload-123.mp4")
	require.NoError(t, os.WriteFile(staged, []byte("data"), 0o644))

	media.CleanupLocal(discardLogger(), staged, filepath.Join(dir, "never-existed.png"), "")

	_, err := os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}
