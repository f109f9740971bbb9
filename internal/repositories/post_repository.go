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

// Engagement fields a user can appear in
const (
	EngagementLikes    = "likes"
	EngagementComments = "comments.user"
	EngagementViews    = "viewedBy"
)

// PostFilter narrows a post listing. A zero User and empty Authors list every post.
type PostFilter struct {
	User    primitive.ObjectID
	Authors []primitive.ObjectID
	Skip    int64
	Limit   int64
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)
	ListEngagedPosts(ctx context.Context, field string, userID primitive.ObjectID) ([]models.Post, error)
	CountPostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	TogglePostLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	TogglePostShare(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	AddPostView(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	AddPostComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) (*models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection(postsCollection)}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.Likes = []primitive.ObjectID{}
	post.Shares = []primitive.ObjectID{}
	post.ViewedBy = []primitive.ObjectID{}
	post.Comments = []models.Comment{}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mapError(err)
	}
	return &post, nil
}

// GetPostsByIDs returns the posts that still exist among ids, newest first
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// ListPosts retrieves posts newest first with pagination
func (r *MongoPostRepository) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(filter.Skip).SetLimit(filter.Limit)
	return r.find(ctx, postQuery(filter), findOptions)
}

// CountPosts counts the posts matching filter, ignoring Skip and Limit
func (r *MongoPostRepository) CountPosts(ctx context.Context, filter PostFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, postQuery(filter))
}

func postQuery(filter PostFilter) bson.M {
	query := bson.M{}
	if !filter.User.IsZero() {
		query["user"] = filter.User
	} else if len(filter.Authors) > 0 {
		query["user"] = bson.M{"$in": filter.Authors}
	}
	return query
}

// ListEngagedPosts returns posts where userID appears in the given engagement field
func (r *MongoPostRepository) ListEngagedPosts(ctx context.Context, field string, userID primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx, bson.M{field: userID}, options.Find())
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]models.Post, error) {
	findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPostsByUser counts the posts authored by userID
func (r *MongoPostRepository) CountPostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user": userID})
}

// TogglePostLike flips userID's membership in likes and returns the updated post
func (r *MongoPostRepository) TogglePostLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return r.updateAndReturn(ctx, postID, togglePipeline("likes", userID))
}

// TogglePostShare flips userID's membership in shares and returns the updated post
func (r *MongoPostRepository) TogglePostShare(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return r.updateAndReturn(ctx, postID, togglePipeline("shares", userID))
}

// AddPostView records userID as a viewer once
func (r *MongoPostRepository) AddPostView(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return r.updateAndReturn(ctx, postID, bson.M{"$addToSet": bson.M{"viewedBy": userID}})
}

func (r *MongoPostRepository) updateAndReturn(ctx context.Context, postID primitive.ObjectID, update interface{}) (*models.Post, error) {
	var post models.Post
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post); err != nil {
		return nil, mapError(err)
	}
	return &post, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
