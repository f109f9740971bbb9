package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaKind is the resource type of an uploaded media file
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Content   string               `json:"content" bson:"content"`
	MediaURL  string               `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"`
	MediaType MediaKind            `json:"mediaType" bson:"mediaType"`
	MediaID   string               `json:"-" bson:"mediaPublicId,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	Shares    []primitive.ObjectID `json:"shares" bson:"shares"`
	ViewedBy  []primitive.ObjectID `json:"viewedBy" bson:"viewedBy"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// CreatePostRequest carries the multipart form fields of a new post; the media file is read separately
type CreatePostRequest struct {
	UserID  string `json:"userId" form:"userId" validate:"omitempty,objectid"`
	Content string `json:"content" form:"content" validate:"max=5000"`
}

// DeletePostRequest identifies the acting user of a post deletion
type DeletePostRequest struct {
	UserID string `json:"userId" query:"userId"`
}

// ListPostsRequest holds the query parameters of the post listing
type ListPostsRequest struct {
	UserID   string `query:"userId" validate:"omitempty,objectid"`
	ViewerID string `query:"viewerId" validate:"omitempty,objectid"`
	Skip     int64  `query:"skip" validate:"min=0"`
	Limit    int64  `query:"limit" validate:"min=0,max=100"`
}

// EngagementRequest is the body of the like, share, save and view toggles
type EngagementRequest struct {
	UserID string `json:"userId"`
}
