package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const searchLimit = 20

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo, postRepository: postRepo}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/friends", h.GetFriends)
	g.GET("/users/:id/activity", h.GetActivity)
}

type profile struct {
	*models.User
	PostsCount int64 `json:"postsCount"`
}

type searchResult struct {
	ID       primitive.ObjectID   `json:"id"`
	Username string               `json:"username"`
	Friends  []primitive.ObjectID `json:"friends"`
}

// GetUser returns a profile without the password, plus the user's post count
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c.Param("id"), "user id")
	if err != nil {
		return err
	}
	return h.respondProfile(c, id)
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := actingUserID(c, c.QueryParam("userId"), "userId")
	if err != nil {
		return err
	}
	return h.respondProfile(c, id)
}

func (h *UserHandler) respondProfile(c echo.Context, id primitive.ObjectID) error {
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return lookupError(err, "User not found")
	}
	count, err := h.postRepository.CountPostsByUser(ctx, id)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": profile{User: user, PostsCount: count}})
}

// SearchUsers finds users whose username contains the query, ignoring case
func (h *UserHandler) SearchUsers(c echo.Context) error {
	var req models.SearchUsersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid query parameters")
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "users": []searchResult{}})
	}

	// an invalid userId only disables the exclusion
	exclude, _ := primitive.ObjectIDFromHex(req.UserID)

	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, exclude, searchLimit)
	if err != nil {
		return serverError(err)
	}

	results := make([]searchResult, 0, len(users))
	for _, u := range users {
		friends := u.Friends
		if friends == nil {
			friends = []primitive.ObjectID{}
		}
		results = append(results, searchResult{ID: u.ID, Username: u.Username, Friends: friends})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": results})
}

// GetFriends lists the user's friends as {id, username}
func (h *UserHandler) GetFriends(c echo.Context) error {
	id, err := parseID(c.Param("id"), "user id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return lookupError(err, "User not found")
	}
	friends, err := h.userRepository.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return serverError(err)
	}

	out := make([]models.UserCompact, 0, len(friends))
	for i := range friends {
		out = append(out, friends[i].ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "friends": out})
}

// GetActivity lists the posts the user liked, commented on and viewed
func (h *UserHandler) GetActivity(c echo.Context) error {
	id, err := parseID(c.Param("id"), "user id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	activity := echo.Map{"success": true}
	for key, field := range map[string]string{
		"liked":     repositories.EngagementLikes,
		"commented": repositories.EngagementComments,
		"viewed":    repositories.EngagementViews,
	} {
		posts, err := h.postRepository.ListEngagedPosts(ctx, field, id)
		if err != nil {
			return serverError(err)
		}
		views, err := buildPostViews(ctx, h.userRepository, posts, nil)
		if err != nil {
			return serverError(err)
		}
		activity[key] = views
	}
	return c.JSON(http.StatusOK, activity)
}
