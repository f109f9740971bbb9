package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type brokenStories struct {
	repositories.StoryRepository
}

func (brokenStories) CreateStory(context.Context, *models.Story) error { return errBoom }

func befriend(t *testing.T, s *testServer, a, b primitive.ObjectID) {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/friends/request", echo.Map{"fromId": a.Hex(), "toId": b.Hex()})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	requestID := s.user(t, b).FriendRequests[0].ID.Hex()
	res = s.do(t, http.MethodPost, "/api/friends/accept", echo.Map{"userId": b.Hex(), "requestId": requestID, "fromId": a.Hex()})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
}

func TestStoriesOfUserAndFriends(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	b := s.createUser(t, "ben")
	c := s.createUser(t, "cat")
	befriend(t, s, a.ID, b.ID)

	for _, u := range []string{b.ID.Hex(), c.ID.Hex()} {
		res := s.multipart(t, "/api/stories", map[string]string{"userId": u},
			&upload{filename: "s.png", contentType: "image/png", data: "png"})
		require.Equal(t, http.StatusCreated, res.Code, res.Body)
	}

	res := s.do(t, http.MethodGet, "/api/stories?userId="+a.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	stories := list(t, res.Body["stories"])
	require.Len(t, stories, 1)
	story := stories[0].(map[string]interface{})
	assert.Equal(t, "ben", story["user"].(map[string]interface{})["username"])

	storyID := story["id"].(string)
	for i := 0; i < 2; i++ {
		res = s.do(t, http.MethodPost, "/api/stories/"+storyID+"/view", echo.Map{"userId": a.ID.Hex()})
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, 1.0, res.Body["viewers"])
	}
}

func TestStoryRequiresMedia(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")

	res := s.multipart(t, "/api/stories", map[string]string{"userId": a.ID.Hex()}, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Image is required", res.Body["message"])

	res = s.do(t, http.MethodGet, "/api/stories?userId="+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestExpiredStoriesAreHidden(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")

	h := NewStoryHandler(s.repos.Stories, s.repos.Users, s.media, time.Hour, quietLogger())
	h.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	g := s.e.Group("/later")
	h.RegisterStoryRoutes(g)

	res := s.multipart(t, "/api/stories", map[string]string{"userId": a.ID.Hex()},
		&upload{filename: "s.png", contentType: "image/png", data: "png"})
	require.Equal(t, http.StatusCreated, res.Code)

	res = s.do(t, http.MethodGet, "/api/stories?userId="+a.ID.Hex(), nil)
	assert.Len(t, list(t, res.Body["stories"]), 1)

	res = s.do(t, http.MethodGet, "/later/stories?userId="+a.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, list(t, res.Body["stories"]))
}

func TestFeedPagesFriendsPosts(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	b := s.createUser(t, "ben")
	c := s.createUser(t, "cat")
	befriend(t, s, a.ID, b.ID)

	s.createPost(t, a, "mine")
	liked := s.createPost(t, b, "friend")
	s.createPost(t, c, "stranger")
	s.do(t, http.MethodPost, "/api/posts/"+liked+"/like", echo.Map{"userId": a.ID.Hex()})

	res := s.do(t, http.MethodGet, "/api/feed?userId="+a.ID.Hex()+"&limit=1", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	posts := list(t, res.Body["data"].(map[string]interface{})["posts"])
	require.Len(t, posts, 1)
	top := posts[0].(map[string]interface{})
	assert.Equal(t, "friend", top["content"])
	assert.Equal(t, true, top["isLiked"])

	meta := res.Body["meta"].(map[string]interface{})
	assert.Equal(t, 2.0, meta["totalItems"])
	assert.Equal(t, 2.0, meta["totalPages"])
	assert.Equal(t, true, meta["hasNextPage"])
}

func TestFailedStoryDiscardsUpload(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")

	h := NewStoryHandler(brokenStories{s.repos.Stories}, s.repos.Users, s.media, time.Hour, quietLogger())
	h.RegisterStoryRoutes(s.e.Group("/broken"))

	res := s.multipart(t, "/broken/stories", map[string]string{"userId": a.ID.Hex()},
		&upload{filename: "lost.png", contentType: "image/png", data: "png"})
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "Server error", res.Body["message"])
	assert.Equal(t, []string{"zynq_media/lost"}, s.media.uploads)
	assert.Equal(t, []string{"zynq_media/lost"}, s.media.deleted)
}

func TestFeedClampsHugePages(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	s.createPost(t, a, "only")

	res := s.do(t, http.MethodGet, "/api/feed?userId="+a.ID.Hex()+"&page=9223372036854775807&limit=50", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Empty(t, list(t, res.Body["data"].(map[string]interface{})["posts"]))

	meta := res.Body["meta"].(map[string]interface{})
	assert.Equal(t, 10000.0, meta["currentPage"])
	assert.Equal(t, 1.0, meta["totalItems"])
	assert.Equal(t, false, meta["hasNextPage"])
}
