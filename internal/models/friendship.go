package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FriendRequestPending = "pending"
)

// FriendRequest is an incoming request stored on the receiving user's document
type FriendRequest struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	From      primitive.ObjectID `json:"from" bson:"from"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// SendFriendRequest defines the request body for sending a friend request
type SendFriendRequest struct {
	FromID string `json:"fromId" validate:"omitempty,objectid"`
	ToID   string `json:"toId" validate:"required,objectid"`
}

// AcceptFriendRequest defines the request body for accepting a friend request
type AcceptFriendRequest struct {
	UserID    string `json:"userId" validate:"omitempty,objectid"`
	RequestID string `json:"requestId" validate:"required,objectid"`
	FromID    string `json:"fromId" validate:"required,objectid"`
}

// RejectFriendRequest defines the request body for rejecting a friend request
type RejectFriendRequest struct {
	UserID    string `json:"userId" validate:"omitempty,objectid"`
	RequestID string `json:"requestId" validate:"required,objectid"`
}

// UnfriendRequest names the user removing a friend
type UnfriendRequest struct {
	UserID string `json:"userId" query:"userId" validate:"omitempty,objectid"`
}
