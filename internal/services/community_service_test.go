package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dong279/mumu-express/internal/models"
)

type communityFixture struct {
	svc           CommunityService
	posts         *fakeCommunityRepo
	engagement    *fakeEngagementRepo
	notifications *fakeNotificationService
}

func newCommunityFixture() *communityFixture {
	posts := newFakeCommunityRepo()
	engagement := newFakeEngagementRepo()
	notifications := &fakeNotificationService{}
	return &communityFixture{
		svc:           NewCommunityService(posts, &fakeCommentRepo{}, engagement, notifications),
		posts:         posts,
		engagement:    engagement,
		notifications: notifications,
	}
}

func (f *communityFixture) seedPost(t *testing.T, ownerID int) int64 {
	t.Helper()
	post := &models.CommunityPost{
		UserID:   ownerID,
		Category: "free",
		Title:    "hello",
		Content:  "world",
	}
	require.NoError(t, f.svc.CreatePost(post, nil))
	return post.CommunityID
}

func TestCreatePostValidation(t *testing.T) {
	f := newCommunityFixture()

	err := f.svc.CreatePost(&models.CommunityPost{Category: "nope", Title: "a", Content: "b"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	err = f.svc.CreatePost(&models.CommunityPost{Category: "free", Title: "", Content: "b"}, nil)
	assert.Error(t, err)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	f := newCommunityFixture()
	postID := f.seedPost(t, 1)

	res, err := f.svc.ToggleLike(2, postID)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, 1, res.Count)

	// повторный toggle снимает лайк и возвращает счётчик в ноль
	res, err = f.svc.ToggleLike(2, postID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, 0, res.Count)
}

func TestToggleLikeCountNeverNegative(t *testing.T) {
	f := newCommunityFixture()
	postID := f.seedPost(t, 1)

	// ребро есть, а счётчик уже в нуле: снятие не должно уйти в минус
	f.engagement.likeEdges[[2]int64{2, postID}] = true

	res, err := f.svc.ToggleLike(2, postID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, 0, res.Count)
}

func TestToggleLikeMissingPost(t *testing.T) {
	f := newCommunityFixture()
	_, err := f.svc.ToggleLike(2, 404)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleBookmarkIndependentOfLikes(t *testing.T) {
	f := newCommunityFixture()
	postID := f.seedPost(t, 1)

	_, err := f.svc.ToggleLike(2, postID)
	require.NoError(t, err)

	res, err := f.svc.ToggleBookmark(2, postID)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, 1, res.Count)

	// снятие закладки не трогает лайки
	res, err = f.svc.ToggleBookmark(2, postID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, 1, f.engagement.likeCounts[postID])
}

func TestCreateCommentNotifiesPostOwner(t *testing.T) {
	f := newCommunityFixture()
	postID := f.seedPost(t, 7)

	err := f.svc.CreateComment(&models.Comment{CommunityID: postID, UserID: 3, UserName: "guest", Content: "nice"})
	require.NoError(t, err)

	require.Len(t, f.notifications.calls, 1)
	call := f.notifications.calls[0]
	assert.Equal(t, 7, call.userID)
	assert.Equal(t, "comment", call.ntype)
	require.NotNil(t, call.relatedID)
	assert.Equal(t, postID, *call.relatedID)
}

func TestCreateCommentOnOwnPostIsSilent(t *testing.T) {
	f := newCommunityFixture()
	postID := f.seedPost(t, 7)

	err := f.svc.CreateComment(&models.Comment{CommunityID: postID, UserID: 7, Content: "self"})
	require.NoError(t, err)
	assert.Empty(t, f.notifications.calls)
}

func TestCreateCommentMissingPost(t *testing.T) {
	f := newCommunityFixture()
	err := f.svc.CreateComment(&models.Comment{CommunityID: 404, UserID: 3, Content: "hi"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListPostsClampsPageSize(t *testing.T) {
	f := newCommunityFixture()

	_, err := f.svc.ListPosts(models.PostFilter{Category: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = f.svc.ListPosts(models.PostFilter{Limit: 100000})
	assert.NoError(t, err)
}
