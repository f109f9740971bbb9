package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Age: 20}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := New()
	newUser(t, s, "alice")

	err := s.CreateUser(context.Background(), &models.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	err = s.CreateUser(context.Background(), &models.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice")

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	got.Friends = append(got.Friends, primitive.NewObjectID())

	again, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Friends)
}

func TestConcurrentLikeTogglesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := newUser(t, s, "owner")
	post := &models.Post{User: owner.ID, Content: "hello"}
	require.NoError(t, s.CreatePost(ctx, post))

	const likers = 50
	var wg sync.WaitGroup
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.TogglePostLike(ctx, post.ID, primitive.NewObjectID())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, likers)
}

func TestFriendRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := newUser(t, s, "alice")
	b := newUser(t, s, "bob")

	req, err := s.AddFriendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)

	_, err = s.AddFriendRequest(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, repositories.ErrRequestExists)

	err = s.AcceptFriendRequest(ctx, b.ID, req.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	c := newUser(t, s, "carol")
	err = s.AcceptFriendRequest(ctx, b.ID, req.ID, c.ID)
	assert.ErrorIs(t, err, repositories.ErrRequestNotFound)

	require.NoError(t, s.AcceptFriendRequest(ctx, b.ID, req.ID, a.ID))

	gotA, _ := s.GetUserByID(ctx, a.ID)
	gotB, _ := s.GetUserByID(ctx, b.ID)
	assert.Equal(t, []primitive.ObjectID{b.ID}, gotA.Friends)
	assert.Equal(t, []primitive.ObjectID{a.ID}, gotB.Friends)
	assert.Empty(t, gotB.FriendRequests)

	_, err = s.AddFriendRequest(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, repositories.ErrAlreadyFriends)

	require.NoError(t, s.RemoveFriend(ctx, a.ID, b.ID))
	gotB, _ = s.GetUserByID(ctx, b.ID)
	assert.Empty(t, gotB.Friends)
}

func TestRejectFriendRequest(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := newUser(t, s, "alice")
	b := newUser(t, s, "bob")

	req, err := s.AddFriendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.NoError(t, s.RejectFriendRequest(ctx, b.ID, req.ID))
	assert.ErrorIs(t, s.RejectFriendRequest(ctx, b.ID, req.ID), repositories.ErrRequestNotFound)

	_, err = s.AddFriendRequest(ctx, b.ID, a.ID)
	assert.NoError(t, err)
}

func TestListLiveStoriesHonoursCutoff(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := newUser(t, s, "alice")

	base := time.Now()
	s.now = func() time.Time { return base.Add(-25 * time.Hour) }
	require.NoError(t, s.CreateStory(ctx, &models.Story{User: u.ID, MediaURL: "old"}))
	s.now = func() time.Time { return base }
	require.NoError(t, s.CreateStory(ctx, &models.Story{User: u.ID, MediaURL: "new"}))

	stories, err := s.ListLiveStories(ctx, []primitive.ObjectID{u.ID}, base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "new", stories[0].MediaURL)
}

func TestDeleteNotificationsByPost(t *testing.T) {
	ctx := context.Background()
	s := New()
	postID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	to := primitive.NewObjectID()

	require.NoError(t, s.CreateNotification(ctx, &models.Notification{To: to, Type: models.NotificationLike, Post: &postID}))
	require.NoError(t, s.CreateNotification(ctx, &models.Notification{To: to, Type: models.NotificationLike, Post: &other}))
	require.NoError(t, s.CreateNotification(ctx, &models.Notification{To: to, Type: models.NotificationComment}))

	deleted, err := s.DeleteNotificationsByPost(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	left, err := s.ListNotificationsFor(ctx, to)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}
