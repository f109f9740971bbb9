package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the event that produced a notification
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationRepost  NotificationType = "repost"
)

// Notification is a fan-out record addressed to one user
type Notification struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	To        primitive.ObjectID  `json:"to" bson:"to"`
	From      primitive.ObjectID  `json:"from" bson:"from"`
	Type      NotificationType    `json:"type" bson:"type"`
	Post      *primitive.ObjectID `json:"post,omitempty" bson:"post,omitempty"`
	Read      bool                `json:"read" bson:"read"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}

// NotificationsRequest names the user whose feed is read
type NotificationsRequest struct {
	UserID string `query:"userId" validate:"omitempty,objectid"`
}

// MarkNotificationRequest names the recipient marking notifications as read
type MarkNotificationRequest struct {
	UserID string `json:"userId"`
}
