package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type followFixture struct {
	svc  FollowService
	repo *fakeFollowRepo
}

func newFollowFixture(targets ...int) *followFixture {
	repo := newFakeFollowRepo()
	for _, id := range targets {
		repo.targets[id] = true
	}
	return &followFixture{svc: NewFollowService(repo), repo: repo}
}

func TestFollowToggleRoundTrip(t *testing.T) {
	f := newFollowFixture(2)

	created, err := f.svc.Follow(1, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, f.repo.followerCount[2])
	assert.Equal(t, 1, f.repo.followingCount[1])

	// повторный follow ничего не создаёт и не двигает счётчики
	created, err = f.svc.Follow(1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, f.repo.followerCount[2])
	assert.Equal(t, 1, f.repo.followingCount[1])

	removed, err := f.svc.Unfollow(1, 2)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, f.repo.followerCount[2])
	assert.Equal(t, 0, f.repo.followingCount[1])
}

func TestFollowCountersNeverGoNegative(t *testing.T) {
	f := newFollowFixture(2)

	removed, err := f.svc.Unfollow(1, 2)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 0, f.repo.followerCount[2])
	assert.Equal(t, 0, f.repo.followingCount[1])

	_, err = f.svc.Follow(1, 2)
	require.NoError(t, err)
	_, err = f.svc.Unfollow(1, 2)
	require.NoError(t, err)

	removed, err = f.svc.Unfollow(1, 2)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.GreaterOrEqual(t, f.repo.followerCount[2], 0)
	assert.GreaterOrEqual(t, f.repo.followingCount[1], 0)
}

func TestFollowSelf(t *testing.T) {
	f := newFollowFixture(1)

	_, err := f.svc.Follow(1, 1)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = f.svc.Unfollow(1, 1)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowMissingTarget(t *testing.T) {
	f := newFollowFixture()

	// цель не существует или мягко удалена
	_, err := f.svc.Follow(1, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.repo.edges)
}
