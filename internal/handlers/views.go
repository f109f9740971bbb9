package handlers

import (
	"context"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userCache resolves user ids to their compact projection. Ids of deleted
// users resolve to an entry with an empty username.
type userCache map[primitive.ObjectID]models.UserCompact

func loadUsers(ctx context.Context, userRepo repositories.UserRepository, ids []primitive.ObjectID) (userCache, error) {
	cache := userCache{}
	if len(ids) == 0 {
		return cache, nil
	}
	users, err := userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		cache[users[i].ID] = users[i].ToCompact()
	}
	return cache, nil
}

func (uc userCache) get(id primitive.ObjectID) models.UserCompact {
	if u, ok := uc[id]; ok {
		return u
	}
	return models.UserCompact{ID: id}
}

// CommentView is a comment with its author populated
type CommentView struct {
	models.Comment
	User models.UserCompact `json:"user"`
}

// PostView is a post with its author and comment authors populated. The
// viewer flags are only set when the listing names a viewer.
type PostView struct {
	models.Post
	User     models.UserCompact `json:"user"`
	Comments []CommentView      `json:"comments"`
	IsLiked  *bool              `json:"isLiked,omitempty"`
	IsShared *bool              `json:"isShared,omitempty"`
	IsSaved  *bool              `json:"isSaved,omitempty"`
}

func commentViews(comments []models.Comment, users userCache) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, cm := range comments {
		out = append(out, CommentView{Comment: cm, User: users.get(cm.User)})
	}
	return out
}

func postAuthorIDs(posts []models.Post) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, p := range posts {
		ids = models.AddID(ids, p.User)
		for _, cm := range p.Comments {
			ids = models.AddID(ids, cm.User)
		}
	}
	return ids
}

// buildPostViews populates authors for posts. viewer may be nil.
func buildPostViews(ctx context.Context, userRepo repositories.UserRepository, posts []models.Post, viewer *models.User) ([]PostView, error) {
	users, err := loadUsers(ctx, userRepo, postAuthorIDs(posts))
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{
			Post:     p,
			User:     users.get(p.User),
			Comments: commentViews(p.Comments, users),
		}
		if viewer != nil {
			liked := models.ContainsID(p.Likes, viewer.ID)
			shared := models.ContainsID(p.Shares, viewer.ID)
			saved := models.ContainsID(viewer.SavedPosts, p.ID)
			v.IsLiked, v.IsShared, v.IsSaved = &liked, &shared, &saved
		}
		views = append(views, v)
	}
	return views, nil
}

func buildPostView(ctx context.Context, userRepo repositories.UserRepository, post *models.Post) (*PostView, error) {
	views, err := buildPostViews(ctx, userRepo, []models.Post{*post}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// MessageView is a message whose replyTo is the referenced message, or null
type MessageView struct {
	models.Message
	ReplyTo *models.Message `json:"replyTo"`
}

func buildMessageViews(ctx context.Context, messageRepo repositories.MessageRepository, messages []models.Message) ([]MessageView, error) {
	var replyIDs []primitive.ObjectID
	for _, m := range messages {
		if m.ReplyTo != nil {
			replyIDs = models.AddID(replyIDs, *m.ReplyTo)
		}
	}

	replies := map[primitive.ObjectID]*models.Message{}
	if len(replyIDs) > 0 {
		found, err := messageRepo.GetMessagesByIDs(ctx, replyIDs)
		if err != nil {
			return nil, err
		}
		for i := range found {
			replies[found[i].ID] = &found[i]
		}
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		v := MessageView{Message: m}
		if m.ReplyTo != nil {
			v.ReplyTo = replies[*m.ReplyTo]
		}
		views = append(views, v)
	}
	return views, nil
}

// PostSummary is the {id, content} projection attached to notifications
type PostSummary struct {
	ID      primitive.ObjectID `json:"id"`
	Content string             `json:"content"`
}

// NotificationView is a notification with sender and post populated
type NotificationView struct {
	models.Notification
	From models.UserCompact `json:"from"`
	Post *PostSummary       `json:"post"`
}

// FriendRequestView is a pending request with its sender populated
type FriendRequestView struct {
	models.FriendRequest
	From models.UserCompact `json:"from"`
}

// StoryView is a story with its author populated
type StoryView struct {
	models.Story
	User models.UserCompact `json:"user"`
}
