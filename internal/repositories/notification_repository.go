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

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	ListNotificationsFor(ctx context.Context, to primitive.ObjectID) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, to primitive.ObjectID) (int64, error)
	MarkNotificationRead(ctx context.Context, id, to primitive.ObjectID) error
	MarkAllNotificationsRead(ctx context.Context, to primitive.ObjectID) (int64, error)
	DeleteNotificationsByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type mongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepository{collection: db.Collection(notificationsCollection)}
}

func (r *mongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

func (r *mongoNotificationRepository) ListNotificationsFor(ctx context.Context, to primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"to": to}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *mongoNotificationRepository) CountUnreadNotifications(ctx context.Context, to primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"to": to, "read": false})
}

// MarkNotificationRead only matches notifications addressed to `to`
func (r *mongoNotificationRepository) MarkNotificationRead(ctx context.Context, id, to primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "to": to}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoNotificationRepository) MarkAllNotificationsRead(ctx context.Context, to primitive.ObjectID) (int64, error) {
	res, err := r.collection.UpdateMany(ctx, bson.M{"to": to, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *mongoNotificationRepository) DeleteNotificationsByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
