package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story represents an ephemeral media post; MongoDB removes it through a TTL index on createdAt
type Story struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	MediaURL  string               `json:"mediaUrl" bson:"mediaUrl"`
	MediaType MediaKind            `json:"mediaType" bson:"mediaType"`
	MediaID   string               `json:"-" bson:"mediaPublicId,omitempty"`
	Viewers   []primitive.ObjectID `json:"viewers" bson:"viewers"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// CreateStoryRequest carries the multipart form fields of a new story
type CreateStoryRequest struct {
	UserID string `json:"userId" form:"userId" validate:"omitempty,objectid"`
}

// ListStoriesRequest holds the query parameters of the story listing
type ListStoriesRequest struct {
	UserID string `query:"userId" validate:"omitempty,objectid"`
}
