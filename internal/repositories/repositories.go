package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	usersCollection         = "users"
	postsCollection         = "posts"
	storiesCollection       = "stories"
	messagesCollection      = "messages"
	notificationsCollection = "notifications"
)

// Repositories bundles the storage interfaces the handlers depend on
type Repositories struct {
	Users         UserRepository
	Posts         PostRepository
	Stories       StoryRepository
	Messages      MessageRepository
	Notifications NotificationRepository
}

// NewMongoRepositories wires every collection of db. When transactions is
// true, multi-document writes run inside a session transaction.
func NewMongoRepositories(db *mongo.Database, transactions bool) *Repositories {
	return &Repositories{
		Users:         NewMongoUserRepository(db, transactions),
		Posts:         NewMongoPostRepository(db),
		Stories:       NewMongoStoryRepository(db),
		Messages:      NewMongoMessageRepository(db),
		Notifications: NewMongoNotificationRepository(db),
	}
}
