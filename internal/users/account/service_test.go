// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account_test

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
	"github.com/vidora/vidora/internal/users/account"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pointer"
)

// # Test Doubles

// fakeUserRepo is an in-memory auth.UserRepository restricted to the
// lookup and update paths the profile service exercises.
type fakeUserRepo struct {
	users map[string]*auth.User

	updateErr error
}

func newFakeUserRepo(seed ...*auth.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*auth.User{}}
	for _, user := range seed {
		copied := *user
		repo.users[user.ID] = &copied
	}
	return repo
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(_ context.Context, _ *auth.User) error { return nil }

func (repo *fakeUserRepo) Update(_ context.Context, user *auth.User) error {
	if repo.updateErr != nil {
		return repo.updateErr
	}
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *fakeUserRepo) SetRefreshToken(_ context.Context, _, _ string) error { return nil }

func (repo *fakeUserRepo) RotateRefreshToken(_ context.Context, _, _, _ string) error { return nil }

func (repo *fakeUserRepo) ClearRefreshToken(_ context.Context, _ string) error { return nil }

func (repo *fakeUserRepo) UpdatePassword(_ context.Context, _, _ string) error { return nil }

// fakeStore is an in-memory media.Store.
type fakeStore struct {
	uploads int
	deletes []string
}

func (store *fakeStore) Upload(_ context.Context, localPath string) (*media.Asset, error) {
	store.uploads++
	return &media.Asset{URL: fmt.Sprintf("https://cdn.test/asset-%d", store.uploads)}, nil
}

func (store *fakeStore) Delete(_ context.Context, assetURL string) error {
	store.deletes = append(store.deletes, assetURL)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func seedUser() *auth.User {
	return &auth.User{
		ID:        "user-1",
		Username:  "creator",
		Email:     "creator@vidora.app",
		FullName:  "The Creator",
		AvatarURL: "https://cdn.test/old-avatar",
	}
}

func newService(seed ...*auth.User) (*account.Service, *fakeUserRepo, *fakeStore) {
	repo := newFakeUserRepo(seed...)
	store := &fakeStore{}
	return account.NewService(repo, store, discardLogger()), repo, store
}

// # Profile Details

/*
TestUpdateDetails_Partial verifies only the provided fields change.
*/
func TestUpdateDetails_Partial(t *testing.T) {
	service, repo, _ := newService(seedUser())

	updated, err := service.UpdateDetails(context.Background(), "user-1", account.UpdateDetailsInput{
		FullName: pointer.To("Renamed Creator"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed Creator", updated.FullName)
	assert.Equal(t, "creator@vidora.app", updated.Email)
	assert.Equal(t, "Renamed Creator", repo.users["user-1"].FullName)
}

/*
TestUpdateDetails_EmailConflict verifies another account's address cannot be
claimed.
*/
func TestUpdateDetails_EmailConflict(t *testing.T) {
	other := &auth.User{ID: "user-2", Username: "other", Email: "other@vidora.app"}
	service, repo, _ := newService(seedUser(), other)

	_, err := service.UpdateDetails(context.Background(), "user-1", account.UpdateDetailsInput{
		Email: pointer.To("other@vidora.app"),
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Equal(t, "creator@vidora.app", repo.users["user-1"].Email)
}

/*
TestUpdateDetails_SameEmail verifies re-submitting the current address is a
no-op, not a conflict with oneself.
*/
func TestUpdateDetails_SameEmail(t *testing.T) {
	service, _, _ := newService(seedUser())

	updated, err := service.UpdateDetails(context.Background(), "user-1", account.UpdateDetailsInput{
		Email: pointer.To("Creator@Vidora.App"),
	})

	require.NoError(t, err)
	assert.Equal(t, "creator@vidora.app", updated.Email)
}

// # Profile Media

/*
TestUpdateAvatar verifies the replace ordering: new object committed, old
object removed after.
*/
func TestUpdateAvatar(t *testing.T) {
	service, repo, store := newService(seedUser())

	updated, err := service.UpdateAvatar(context.Background(), "user-1", "/tmp/new-avatar.png")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/asset-1", updated.AvatarURL)
	assert.Equal(t, "https://cdn.test/asset-1", repo.users["user-1"].AvatarURL)
	assert.Equal(t, []string{"https://cdn.test/old-avatar"}, store.deletes)
}

/*
TestUpdateAvatar_PersistFailure verifies the freshly uploaded object is
discarded and the account keeps its previous avatar.
*/
func TestUpdateAvatar_PersistFailure(t *testing.T) {
	service, repo, store := newService(seedUser())
	repo.updateErr = apperr.Internal(errors.New("write failed"))

	_, err := service.UpdateAvatar(context.Background(), "user-1", "/tmp/new-avatar.png")

	require.Error(t, err)
	assert.Equal(t, "https://cdn.test/old-avatar", repo.users["user-1"].AvatarURL)
	assert.Equal(t, []string{"https://cdn.test/asset-1"}, store.deletes)
}

/*
TestUpdateCoverImage_FirstUpload verifies an account without a cover image
skips the old-asset deletion.
*/
func TestUpdateCoverImage_FirstUpload(t *testing.T) {
	service, repo, store := newService(seedUser())

	updated, err := service.UpdateCoverImage(context.Background(), "user-1", "/tmp/cover.png")

	require.NoError(t, err)
	assert.NotEmpty(t, updated.CoverImageURL)
	assert.Equal(t, updated.CoverImageURL, repo.users["user-1"].CoverImageURL)
	assert.Empty(t, store.deletes)
}

// # Channel Profiles

/*
TestChannelProfile verifies the public lookup normalizes the username.
*/
func TestChannelProfile(t *testing.T) {
	service, _, _ := newService(seedUser())

	user, err := service.ChannelProfile(context.Background(), "  Creator  ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = service.ChannelProfile(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
