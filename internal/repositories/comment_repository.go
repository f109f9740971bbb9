package repositories

import (
	"context"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddPostComment appends a comment to the post's ordered list and returns the updated post
func (r *MongoPostRepository) AddPostComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) (*models.Post, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	return r.updateAndReturn(ctx, postID, bson.M{"$push": bson.M{"comments": comment}})
}
