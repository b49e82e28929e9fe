package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dong279/mumu-express/internal/config"
	"github.com/dong279/mumu-express/internal/models"
)

func newTestTokenService(repo *fakeRefreshTokenRepo) TokenService {
	return NewTokenService(repo, config.JWTConfig{
		Secret:         "test-secret",
		AccessTTLHours: 1,
		RefreshTTLDays: 30,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(newFakeRefreshTokenRepo())

	access, err := svc.IssueAccessToken(42)
	require.NoError(t, err)

	userID, err := svc.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	_, err = svc.ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestRedeemDoesNotRotateToken(t *testing.T) {
	repo := newFakeRefreshTokenRepo()
	svc := newTestTokenService(repo)

	refresh, err := svc.IssueRefreshToken(7, "ios", "iPhone 15")
	require.NoError(t, err)
	assert.Len(t, refresh, 128) // 64 байта в hex

	access, userID, err := svc.Redeem(refresh)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	assert.NotEmpty(t, access)

	// токен остаётся живым и после обмена
	_, userID, err = svc.Redeem(refresh)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	assert.Len(t, repo.touched, 2)
}

func TestRedeemRejectsRevoked(t *testing.T) {
	svc := newTestTokenService(newFakeRefreshTokenRepo())

	refresh, err := svc.IssueRefreshToken(7, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(refresh))

	_, _, err = svc.Redeem(refresh)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRedeemRejectsExpired(t *testing.T) {
	repo := newFakeRefreshTokenRepo()
	svc := newTestTokenService(repo)

	refresh, err := svc.IssueRefreshToken(7, "", "")
	require.NoError(t, err)
	repo.tokens[refresh].expiresAt = time.Now().Add(-time.Minute)

	_, _, err = svc.Redeem(refresh)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRedeemRejectsInactiveOwner(t *testing.T) {
	repo := newFakeRefreshTokenRepo()
	svc := newTestTokenService(repo)

	refresh, err := svc.IssueRefreshToken(7, "", "")
	require.NoError(t, err)
	repo.ownerStatus[7] = models.UserStatusInactive

	_, _, err = svc.Redeem(refresh)
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRevokeAllKillsEveryDevice(t *testing.T) {
	repo := newFakeRefreshTokenRepo()
	svc := newTestTokenService(repo)

	first, err := svc.IssueRefreshToken(7, "ios", "")
	require.NoError(t, err)
	second, err := svc.IssueRefreshToken(7, "android", "")
	require.NoError(t, err)
	other, err := svc.IssueRefreshToken(8, "ios", "")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(7))

	_, _, err = svc.Redeem(first)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, _, err = svc.Redeem(second)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// чужие токены не задеты
	_, userID, err := svc.Redeem(other)
	require.NoError(t, err)
	assert.Equal(t, 8, userID)
}
