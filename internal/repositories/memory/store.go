// Package memory provides an in-process implementation of every repository
// interface. It backs the handler tests and STORAGE_BACKEND=memory.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is a thread-safe in-memory persistence layer. Records are kept in
// insertion order so "newest first" is a reverse walk.
type Store struct {
	mu            sync.RWMutex
	users         []*models.User
	posts         []*models.Post
	stories       []*models.Story
	messages      []*models.Message
	notifications []*models.Notification
	now           func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// Repositories exposes the store through the repository bundle.
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:         s,
		Posts:         s,
		Stories:       s,
		Messages:      s,
		Notifications: s,
	}
}

var (
	_ repositories.UserRepository         = (*Store)(nil)
	_ repositories.PostRepository         = (*Store)(nil)
	_ repositories.StoryRepository        = (*Store)(nil)
	_ repositories.MessageRepository      = (*Store)(nil)
	_ repositories.NotificationRepository = (*Store)(nil)
)

// Users ----------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = s.now()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if user.FriendRequests == nil {
		user.FriendRequests = []models.FriendRequest{}
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	s.users = append(s.users, cloneUser(user))
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u *models.User) bool { return u.ID == id })
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u *models.User) bool { return u.Username == username })
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u *models.User) bool { return u.Email == email })
}

func (s *Store) findUser(match func(*models.User) bool) (*models.User, error) {
	if u := s.userLocked(match); u != nil {
		return cloneUser(u), nil
	}
	return nil, repositories.ErrNotFound
}

func (s *Store) userLocked(match func(*models.User) bool) *models.User {
	for _, u := range s.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (s *Store) userByIDLocked(id primitive.ObjectID) *models.User {
	return s.userLocked(func(u *models.User) bool { return u.ID == id })
}

func (s *Store) UserExists(_ context.Context, username, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.userLocked(func(u *models.User) bool { return u.Username == username || u.Email == email })
	return u != nil, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.User{}
	for _, u := range s.users {
		if models.ContainsID(ids, u.ID) {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (s *Store) SearchUsers(_ context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	out := []models.User{}
	for _, u := range s.users {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if u.ID == exclude || !strings.Contains(strings.ToLower(u.Username), needle) {
			continue
		}
		out = append(out, models.User{ID: u.ID, Username: u.Username, Friends: cloneIDs(u.Friends)})
	}
	return out, nil
}

func (s *Store) ToggleSavedPost(_ context.Context, userID, postID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByIDLocked(userID)
	if u == nil {
		return false, repositories.ErrNotFound
	}
	var saved bool
	u.SavedPosts, saved = models.ToggleID(u.SavedPosts, postID)
	return saved, nil
}

func (s *Store) RemoveSavedPostEverywhere(_ context.Context, postID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		u.SavedPosts = models.RemoveID(u.SavedPosts, postID)
	}
	return nil
}

func (s *Store) AddFriendRequest(_ context.Context, to, from primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.userByIDLocked(to)
	if target == nil {
		return nil, repositories.ErrNotFound
	}
	if models.ContainsID(target.Friends, from) {
		return nil, repositories.ErrAlreadyFriends
	}
	for _, r := range target.FriendRequests {
		if r.From == from {
			return nil, repositories.ErrRequestExists
		}
	}
	req := models.FriendRequest{
		ID:        primitive.NewObjectID(),
		From:      from,
		Status:    models.FriendRequestPending,
		CreatedAt: s.now(),
	}
	target.FriendRequests = append(target.FriendRequests, req)
	return &req, nil
}

func (s *Store) AcceptFriendRequest(_ context.Context, userID, requestID, fromID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByIDLocked(userID)
	sender := s.userByIDLocked(fromID)
	if user == nil || sender == nil {
		return repositories.ErrNotFound
	}
	idx := -1
	for i, r := range user.FriendRequests {
		if r.ID == requestID && r.From == fromID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return repositories.ErrRequestNotFound
	}
	user.FriendRequests = append(user.FriendRequests[:idx:idx], user.FriendRequests[idx+1:]...)
	user.Friends = models.AddID(user.Friends, fromID)
	sender.Friends = models.AddID(sender.Friends, userID)
	return nil
}

func (s *Store) RejectFriendRequest(_ context.Context, userID, requestID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByIDLocked(userID)
	if user == nil {
		return repositories.ErrNotFound
	}
	for i, r := range user.FriendRequests {
		if r.ID == requestID {
			user.FriendRequests = append(user.FriendRequests[:i:i], user.FriendRequests[i+1:]...)
			return nil
		}
	}
	return repositories.ErrRequestNotFound
}

func (s *Store) RemoveFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByIDLocked(userID)
	if user == nil {
		return repositories.ErrNotFound
	}
	user.Friends = models.RemoveID(user.Friends, friendID)
	if friend := s.userByIDLocked(friendID); friend != nil {
		friend.Friends = models.RemoveID(friend.Friends, userID)
	}
	return nil
}

// Posts ----------------------------------------------------------------------

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = s.now()
	post.Likes = []primitive.ObjectID{}
	post.Shares = []primitive.ObjectID{}
	post.ViewedBy = []primitive.ObjectID{}
	post.Comments = []models.Comment{}
	s.posts = append(s.posts, clonePost(post))
	return nil
}

func (s *Store) postByIDLocked(id primitive.ObjectID) *models.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.postByIDLocked(id); p != nil {
		return clonePost(p), nil
	}
	return nil, repositories.ErrNotFound
}

func (s *Store) GetPostsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	return s.newestPosts(func(p *models.Post) bool { return models.ContainsID(ids, p.ID) }, 0, 0), nil
}

func (s *Store) ListPosts(_ context.Context, filter repositories.PostFilter) ([]models.Post, error) {
	return s.newestPosts(postMatcher(filter), filter.Skip, filter.Limit), nil
}

func (s *Store) CountPosts(_ context.Context, filter repositories.PostFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := postMatcher(filter)
	var n int64
	for _, p := range s.posts {
		if match(p) {
			n++
		}
	}
	return n, nil
}

func postMatcher(filter repositories.PostFilter) func(*models.Post) bool {
	return func(p *models.Post) bool {
		switch {
		case !filter.User.IsZero():
			return p.User == filter.User
		case len(filter.Authors) > 0:
			return models.ContainsID(filter.Authors, p.User)
		}
		return true
	}
}

func (s *Store) ListEngagedPosts(_ context.Context, field string, userID primitive.ObjectID) ([]models.Post, error) {
	return s.newestPosts(func(p *models.Post) bool {
		switch field {
		case repositories.EngagementLikes:
			return models.ContainsID(p.Likes, userID)
		case repositories.EngagementViews:
			return models.ContainsID(p.ViewedBy, userID)
		case repositories.EngagementComments:
			for _, c := range p.Comments {
				if c.User == userID {
					return true
				}
			}
		}
		return false
	}, 0, 0), nil
}

func (s *Store) newestPosts(match func(*models.Post) bool, skip, limit int64) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Post{}
	for i := len(s.posts) - 1; i >= 0; i-- {
		if !match(s.posts[i]) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, *clonePost(s.posts[i]))
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out
}

func (s *Store) CountPostsByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.posts {
		if p.User == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) TogglePostLike(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return s.mutatePost(postID, func(p *models.Post) {
		p.Likes, _ = models.ToggleID(p.Likes, userID)
	})
}

func (s *Store) TogglePostShare(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return s.mutatePost(postID, func(p *models.Post) {
		p.Shares, _ = models.ToggleID(p.Shares, userID)
	})
}

func (s *Store) AddPostView(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return s.mutatePost(postID, func(p *models.Post) {
		p.ViewedBy = models.AddID(p.ViewedBy, userID)
	})
}

func (s *Store) AddPostComment(_ context.Context, postID primitive.ObjectID, comment *models.Comment) (*models.Post, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = s.now()
	return s.mutatePost(postID, func(p *models.Post) {
		p.Comments = append(p.Comments, *comment)
	})
}

func (s *Store) mutatePost(postID primitive.ObjectID, fn func(*models.Post)) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.postByIDLocked(postID)
	if p == nil {
		return nil, repositories.ErrNotFound
	}
	fn(p)
	return clonePost(p), nil
}

func (s *Store) DeletePost(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i:i], s.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// Stories --------------------------------------------------------------------

func (s *Store) CreateStory(_ context.Context, story *models.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	story.ID = primitive.NewObjectID()
	story.CreatedAt = s.now()
	story.Viewers = []primitive.ObjectID{}
	cp := *story
	s.stories = append(s.stories, &cp)
	return nil
}

func (s *Store) ListLiveStories(_ context.Context, userIDs []primitive.ObjectID, since time.Time) ([]models.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Story{}
	for i := len(s.stories) - 1; i >= 0; i-- {
		st := s.stories[i]
		if st.CreatedAt.After(since) && models.ContainsID(userIDs, st.User) {
			out = append(out, *cloneStory(st))
		}
	}
	return out, nil
}

func (s *Store) AddStoryViewer(_ context.Context, storyID, userID primitive.ObjectID) (*models.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.stories {
		if st.ID == storyID {
			st.Viewers = models.AddID(st.Viewers, userID)
			return cloneStory(st), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Messages -------------------------------------------------------------------

func (s *Store) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = s.now()
	cp := *msg
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *Store) GetMessageByID(_ context.Context, id primitive.ObjectID) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Store) GetMessagesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Message, error) {
	return s.oldestMessages(func(m *models.Message) bool { return models.ContainsID(ids, m.ID) }), nil
}

func (s *Store) ListConversation(_ context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	return s.oldestMessages(func(m *models.Message) bool {
		return (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a)
	}), nil
}

func (s *Store) oldestMessages(match func(*models.Message) bool) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Message{}
	for _, m := range s.messages {
		if match(m) {
			out = append(out, *m)
		}
	}
	return out
}

// Notifications --------------------------------------------------------------

func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = primitive.NewObjectID()
	n.CreatedAt = s.now()
	cp := *n
	s.notifications = append(s.notifications, &cp)
	return nil
}

func (s *Store) ListNotificationsFor(_ context.Context, to primitive.ObjectID) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].To == to {
			out = append(out, *s.notifications[i])
		}
	}
	return out, nil
}

func (s *Store) CountUnreadNotifications(_ context.Context, to primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, notif := range s.notifications {
		if notif.To == to && !notif.Read {
			n++
		}
	}
	return n, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id, to primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == id && n.To == to {
			n.Read = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *Store) MarkAllNotificationsRead(_ context.Context, to primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	for _, n := range s.notifications {
		if n.To == to && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

func (s *Store) DeleteNotificationsByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notifications[:0]
	var deleted int64
	for _, n := range s.notifications {
		if n.Post != nil && *n.Post == postID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.notifications = kept
	return deleted, nil
}

// Cloning helpers -------------------------------------------------------------

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return append([]primitive.ObjectID(nil), ids...)
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Friends = cloneIDs(u.Friends)
	cp.SavedPosts = cloneIDs(u.SavedPosts)
	cp.FriendRequests = append([]models.FriendRequest{}, u.FriendRequests...)
	return &cp
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = cloneIDs(p.Likes)
	cp.Shares = cloneIDs(p.Shares)
	cp.ViewedBy = cloneIDs(p.ViewedBy)
	cp.Comments = append([]models.Comment{}, p.Comments...)
	return &cp
}

func cloneStory(st *models.Story) *models.Story {
	cp := *st
	cp.Viewers = cloneIDs(st.Viewers)
	return &cp
}
