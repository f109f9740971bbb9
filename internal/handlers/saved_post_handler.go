package handlers

import (
	"net/http"

	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles a user's saved-post set
type SavedPostHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	metrics        *metrics.Metrics
}

// NewSavedPostHandler creates a new SavedPostHandler. m may be nil.
func NewSavedPostHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, m *metrics.Metrics) *SavedPostHandler {
	return &SavedPostHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		metrics:        m,
	}
}

// RegisterSavedPostRoutes registers saved-post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.ToggleSave)
	g.GET("/users/:id/saved", h.GetSavedPosts)
}

// ToggleSave adds the post to the caller's saved set or removes it
func (h *SavedPostHandler) ToggleSave(c echo.Context) error {
	postID, userID, err := engagementTarget(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.postRepository.GetPostByID(ctx, postID); err != nil {
		return lookupError(err, "Post not found")
	}

	isSaved, err := h.userRepository.ToggleSavedPost(ctx, userID, postID)
	if err != nil {
		return lookupError(err, "User not found")
	}
	h.metrics.ObserveToggle("save", isSaved)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "isSaved": isSaved})
}

// GetSavedPosts lists the user's saved posts; ids of deleted posts are skipped
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	userID, err := parseID(c.Param("id"), "user id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return lookupError(err, "User not found")
	}

	posts, err := h.postRepository.GetPostsByIDs(ctx, user.SavedPosts)
	if err != nil {
		return serverError(err)
	}

	views, err := buildPostViews(ctx, h.userRepository, posts, nil)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "savedPosts": views})
}
