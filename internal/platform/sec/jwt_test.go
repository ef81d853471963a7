// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/sec"
)

func newTestService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(
		[]byte("access-secret-for-tests"),
		[]byte("refresh-secret-for-tests"),
		"vidora.test",
	)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_Construction verifies the secret hygiene rules.
*/
func TestTokenService_Construction(t *testing.T) {
	t.Run("missing_secret_rejected", func(t *testing.T) {
		_, err := sec.NewTokenService(nil, []byte("refresh"), "vidora.test")
		assert.Error(t, err)
	})

	t.Run("shared_secret_rejected", func(t *testing.T) {
		shared := []byte("one-secret-for-both")
		_, err := sec.NewTokenService(shared, shared, "vidora.test")
		assert.Error(t, err)
	})
}

/*
TestAccessToken_RoundTrip verifies issue and verify of the access token
including the embedded token version claim.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTestService(t)

	token, err := service.IssueAccessToken("user-123", 7, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, 7, claims.TokenVersion)
}

/*
TestAccessToken_Expired verifies that an expired token is rejected with the
sentinel error.
*/
func TestAccessToken_Expired(t *testing.T) {
	service := newTestService(t)

	token, err := service.IssueAccessToken("user-123", 0, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenFamilies_AreNotInterchangeable verifies that a refresh token never
passes access verification and vice versa. The two families are signed with
distinct secrets.
*/
func TestTokenFamilies_AreNotInterchangeable(t *testing.T) {
	service := newTestService(t)

	refreshToken, err := service.IssueRefreshToken("user-123", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	accessToken, err := service.IssueAccessToken("user-123", 0, time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestVerify_ForeignSignature verifies that a token minted by a service with
different secrets is rejected.
*/
func TestVerify_ForeignSignature(t *testing.T) {
	service := newTestService(t)

	foreign, err := sec.NewTokenService(
		[]byte("other-access-secret"),
		[]byte("other-refresh-secret"),
		"vidora.test",
	)
	require.NoError(t, err)

	forged, err := foreign.IssueAccessToken("user-123", 0, time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(forged)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestVerify_Garbage verifies that malformed input is rejected.
*/
func TestVerify_Garbage(t *testing.T) {
	service := newTestService(t)

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyAccessToken(input)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	}
}

/*
TestHashToken_Deterministic verifies the refresh token digest used for
storage comparison.
*/
func TestHashToken_Deterministic(t *testing.T) {
	first := sec.HashToken("some-refresh-token")
	second := sec.HashToken("some-refresh-token")
	other := sec.HashToken("another-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	// sha256 hex digest
	assert.Len(t, first, 64)
}

/*
TestPasswordHashing verifies the bcrypt round trip.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}
