package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFriendRequestLifecycle(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	b := s.createUser(t, "ben")
	request := echo.Map{"fromId": a.ID.Hex(), "toId": b.ID.Hex()}

	res := s.do(t, http.MethodPost, "/api/friends/request", request)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "Friend request sent", res.Body["message"])

	res = s.do(t, http.MethodPost, "/api/friends/request", request)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Request already sent", res.Body["message"])

	res = s.do(t, http.MethodGet, "/api/notifications?userId="+b.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	requests := list(t, res.Body["requests"])
	require.Len(t, requests, 1)
	pending := requests[0].(map[string]interface{})
	assert.Equal(t, "ann", pending["from"].(map[string]interface{})["username"])
	assert.Equal(t, "pending", pending["status"])
	requestID := pending["id"].(string)

	res = s.do(t, http.MethodPost, "/api/friends/accept", echo.Map{
		"userId": b.ID.Hex(), "requestId": requestID, "fromId": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(t, http.MethodPost, "/api/friends/accept", echo.Map{
		"userId": b.ID.Hex(), "requestId": primitive.NewObjectID().Hex(), "fromId": a.ID.Hex(),
	})
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Friend request not found", res.Body["message"])

	res = s.do(t, http.MethodPost, "/api/friends/accept", echo.Map{
		"userId": b.ID.Hex(), "requestId": requestID, "fromId": a.ID.Hex(),
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "Friend request accepted", res.Body["message"])

	assert.Equal(t, []primitive.ObjectID{b.ID}, s.user(t, a.ID).Friends)
	assert.Equal(t, []primitive.ObjectID{a.ID}, s.user(t, b.ID).Friends)
	assert.Empty(t, s.user(t, b.ID).FriendRequests)

	res = s.do(t, http.MethodPost, "/api/friends/request", request)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Already friends", res.Body["message"])

	res = s.do(t, http.MethodGet, "/api/users/"+a.ID.Hex()+"/friends", nil)
	require.Equal(t, http.StatusOK, res.Code)
	friends := list(t, res.Body["friends"])
	require.Len(t, friends, 1)
	assert.Equal(t, "ben", friends[0].(map[string]interface{})["username"])

	res = s.do(t, http.MethodDelete, "/api/friends/"+b.ID.Hex(), echo.Map{"userId": a.ID.Hex()})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Empty(t, s.user(t, a.ID).Friends)
	assert.Empty(t, s.user(t, b.ID).Friends)
}

func TestFriendRequestRejections(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")

	res := s.do(t, http.MethodPost, "/api/friends/request", echo.Map{"fromId": a.ID.Hex(), "toId": a.ID.Hex()})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPost, "/api/friends/request", echo.Map{"fromId": a.ID.Hex(), "toId": primitive.NewObjectID().Hex()})
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "User not found", res.Body["message"])

	res = s.do(t, http.MethodPost, "/api/friends/request", echo.Map{"fromId": a.ID.Hex(), "toId": "bogus"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "toId must be a valid id", res.Body["message"])
}

func TestRejectFriendRequest(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	b := s.createUser(t, "ben")

	res := s.do(t, http.MethodPost, "/api/friends/request", echo.Map{"fromId": a.ID.Hex(), "toId": b.ID.Hex()})
	require.Equal(t, http.StatusOK, res.Code)
	requestID := s.user(t, b.ID).FriendRequests[0].ID.Hex()

	res = s.do(t, http.MethodPost, "/api/friends/reject", echo.Map{"userId": b.ID.Hex(), "requestId": requestID})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Empty(t, s.user(t, b.ID).FriendRequests)
	assert.Empty(t, s.user(t, b.ID).Friends)

	res = s.do(t, http.MethodPost, "/api/friends/reject", echo.Map{"userId": b.ID.Hex(), "requestId": requestID})
	assert.Equal(t, http.StatusNotFound, res.Code)

	// a rejected sender may ask again
	res = s.do(t, http.MethodPost, "/api/friends/request", echo.Map{"fromId": a.ID.Hex(), "toId": b.ID.Hex()})
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestSearchUsers(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	s.createUser(t, "Annabel")
	s.createUser(t, "ben")
	s.createUser(t, "a.nn")

	res := s.do(t, http.MethodGet, "/api/users/search?query=ANN&userId="+a.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, res.Code)
	users := list(t, res.Body["users"])
	require.Len(t, users, 1)
	found := users[0].(map[string]interface{})
	assert.Equal(t, "Annabel", found["username"])
	assert.NotNil(t, found["friends"])
	_, hasEmail := found["email"]
	assert.False(t, hasEmail)

	// regex metacharacters match literally
	res = s.do(t, http.MethodGet, "/api/users/search?query=a.n", nil)
	assert.Len(t, list(t, res.Body["users"]), 1)

	res = s.do(t, http.MethodGet, "/api/users/search?query=", nil)
	assert.Empty(t, list(t, res.Body["users"]))

	res = s.do(t, http.MethodGet, "/api/users/search?query=ann&userId=garbage", nil)
	assert.Len(t, list(t, res.Body["users"]), 2)
}

func TestProfileAndActivity(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	b := s.createUser(t, "ben")
	postID := s.createPost(t, a, "one")
	s.createPost(t, a, "two")

	s.do(t, http.MethodPost, "/api/posts/"+postID+"/like", echo.Map{"userId": b.ID.Hex()})
	s.do(t, http.MethodPost, "/api/posts/"+postID+"/view", echo.Map{"userId": b.ID.Hex()})

	res := s.do(t, http.MethodGet, "/api/users/"+a.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, res.Code)
	user := res.Body["user"].(map[string]interface{})
	assert.Equal(t, "ann", user["username"])
	assert.Equal(t, 2.0, user["postsCount"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)

	res = s.do(t, http.MethodGet, "/api/users/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(t, http.MethodGet, "/api/users/"+b.ID.Hex()+"/activity", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, list(t, res.Body["liked"]), 1)
	assert.Len(t, list(t, res.Body["viewed"]), 1)
	assert.Empty(t, list(t, res.Body["commented"]))
}
