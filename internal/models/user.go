package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document in the users collection
type User struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username       string               `json:"username" bson:"username"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"-" bson:"password"` // bcrypt hash
	Age            int                  `json:"age" bson:"age"`
	Friends        []primitive.ObjectID `json:"friends" bson:"friends"`
	FriendRequests []FriendRequest      `json:"friendRequests" bson:"friendRequests"`
	SavedPosts     []primitive.ObjectID `json:"savedPosts" bson:"savedPosts"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
}

// UserCompact is the public {id, username} projection embedded in other responses
type UserCompact struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

// ToCompact returns the compact projection of the user
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username}
}

// PendingRequests returns the incoming requests that are still pending
func (u *User) PendingRequests() []FriendRequest {
	pending := make([]FriendRequest, 0, len(u.FriendRequests))
	for _, r := range u.FriendRequests {
		if r.Status == FriendRequestPending {
			pending = append(pending, r)
		}
	}
	return pending
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Age      int    `json:"age" validate:"required,min=13,max=120"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type SearchUsersRequest struct {
	Query  string `query:"query"`
	UserID string `query:"userId"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
