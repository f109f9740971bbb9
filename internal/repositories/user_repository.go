package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SearchUsers(ctx context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error)
	ToggleSavedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error)
	RemoveSavedPostEverywhere(ctx context.Context, postID primitive.ObjectID) error
	AddFriendRequest(ctx context.Context, to, from primitive.ObjectID) (*models.FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, userID, requestID, fromID primitive.ObjectID) error
	RejectFriendRequest(ctx context.Context, userID, requestID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection   *mongo.Collection
	transactions bool
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database, transactions bool) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection), transactions: transactions}
}

// CreateUser inserts a new user. A unique index violation returns ErrDuplicate.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if user.FriendRequests == nil {
		user.FriendRequests = []models.FriendRequest{}
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return mapError(err)
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByUsername retrieves a user by exact username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetUserByEmail retrieves a user by exact email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// UserExists reports whether the username or the email is taken
func (r *MongoUserRepository) UserExists(ctx context.Context, username, email string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetUsersByIDs returns the users that exist among ids, in no particular order
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsers matches usernames case-insensitively. The query is matched
// literally; exclude is skipped unless it is the zero id.
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	filter := bson.M{"username": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"username": 1, "friends": 1}).
		SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ToggleSavedPost adds or removes postID in the user's saved set and reports
// whether the post is saved afterwards.
func (r *MongoUserRepository) ToggleSavedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"savedPosts": 1})

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, togglePipeline("savedPosts", postID), opts).Decode(&user)
	if err != nil {
		return false, mapError(err)
	}
	return models.ContainsID(user.SavedPosts, postID), nil
}

// RemoveSavedPostEverywhere pulls postID out of every user's saved set
func (r *MongoUserRepository) RemoveSavedPostEverywhere(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"savedPosts": postID},
		bson.M{"$pull": bson.M{"savedPosts": postID}},
	)
	return err
}
