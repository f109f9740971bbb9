package repositories

import (
	"context"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoryRepository defines the interface for story operations
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	ListLiveStories(ctx context.Context, userIDs []primitive.ObjectID, since time.Time) ([]models.Story, error)
	AddStoryViewer(ctx context.Context, storyID, userID primitive.ObjectID) (*models.Story, error)
}

type storyRepository struct {
	collection *mongo.Collection
}

func NewMongoStoryRepository(db *mongo.Database) StoryRepository {
	return &storyRepository{collection: db.Collection(storiesCollection)}
}

func (r *storyRepository) CreateStory(ctx context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.Viewers = []primitive.ObjectID{}
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

// ListLiveStories filters on createdAt as well, since the TTL monitor only runs periodically
func (r *storyRepository) ListLiveStories(ctx context.Context, userIDs []primitive.ObjectID, since time.Time) ([]models.Story, error) {
	stories := []models.Story{}
	if len(userIDs) == 0 {
		return stories, nil
	}
	filter := bson.M{
		"user":      bson.M{"$in": userIDs},
		"createdAt": bson.M{"$gt": since},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepository) AddStoryViewer(ctx context.Context, storyID, userID primitive.ObjectID) (*models.Story, error) {
	var story models.Story
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": storyID}, bson.M{"$addToSet": bson.M{"viewers": userID}}, opts).Decode(&story)
	if err != nil {
		return nil, mapError(err)
	}
	return &story, nil
}
