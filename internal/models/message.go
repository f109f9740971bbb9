package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two users
type Message struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID  `json:"sender" bson:"sender"`
	Receiver  primitive.ObjectID  `json:"receiver" bson:"receiver"`
	Content   string              `json:"content" bson:"content"`
	MediaURL  string              `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"`
	MediaType MediaKind           `json:"mediaType" bson:"mediaType"`
	ReplyTo   *primitive.ObjectID `json:"replyTo" bson:"replyTo,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}

// SendMessageRequest accepts both JSON and multipart bodies
type SendMessageRequest struct {
	Sender   string `json:"sender" form:"sender" validate:"omitempty,objectid"`
	Receiver string `json:"receiver" form:"receiver" validate:"required,objectid"`
	Content  string `json:"content" form:"content" validate:"max=5000"`
	ReplyTo  string `json:"replyTo" form:"replyTo" validate:"omitempty,objectid"`
}
