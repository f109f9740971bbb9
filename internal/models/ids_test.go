package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleID(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	ids, member := ToggleID(nil, a)
	assert.True(t, member)
	assert.Equal(t, []primitive.ObjectID{a}, ids)

	ids, member = ToggleID(ids, b)
	assert.True(t, member)
	assert.Len(t, ids, 2)

	ids, member = ToggleID(ids, a)
	assert.False(t, member)
	assert.Equal(t, []primitive.ObjectID{b}, ids)
}

func TestAddAndRemoveID(t *testing.T) {
	a := primitive.NewObjectID()

	ids := AddID(nil, a)
	ids = AddID(ids, a)
	assert.Len(t, ids, 1)
	assert.True(t, ContainsID(ids, a))

	ids = RemoveID(ids, a)
	assert.Empty(t, ids)
	assert.False(t, ContainsID(ids, a))
}

func TestPendingRequests(t *testing.T) {
	u := &User{FriendRequests: []FriendRequest{
		{ID: primitive.NewObjectID(), Status: FriendRequestPending},
		{ID: primitive.NewObjectID(), Status: "rejected"},
	}}
	assert.Len(t, u.PendingRequests(), 1)
}
