package handlers

import (
	"net/http"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles the like, share and view engagement of posts
type LikeHandler struct {
	postRepository repositories.PostRepository
	notifier       *Notifier
	metrics        *metrics.Metrics
}

// NewLikeHandler creates a new LikeHandler. m may be nil.
func NewLikeHandler(postRepo repositories.PostRepository, notifier *Notifier, m *metrics.Metrics) *LikeHandler {
	return &LikeHandler{
		postRepository: postRepo,
		notifier:       notifier,
		metrics:        m,
	}
}

// RegisterLikeRoutes registers engagement routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
	g.POST("/posts/:id/share", h.SharePost)
	g.POST("/posts/:id/view", h.ViewPost)
}

// engagementTarget parses the post id and the acting user of a toggle
func engagementTarget(c echo.Context) (postID, userID primitive.ObjectID, err error) {
	postID, err = parseID(c.Param("id"), "post id")
	if err != nil {
		return
	}
	var req models.EngagementRequest
	if err = c.Bind(&req); err != nil {
		err = badRequest("Invalid request payload")
		return
	}
	userID, err = actingUserID(c, req.UserID, "userId")
	return
}

// LikePost toggles the caller's like and notifies the owner on a new like
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID, userID, err := engagementTarget(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	post, err := h.postRepository.TogglePostLike(ctx, postID, userID)
	if err != nil {
		return lookupError(err, "Post not found")
	}

	isLiked := models.ContainsID(post.Likes, userID)
	h.metrics.ObserveToggle("like", isLiked)
	if isLiked {
		h.notifier.Notify(ctx, post, userID, models.NotificationLike)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"likesCount": len(post.Likes),
		"isLiked":    isLiked,
	})
}

// SharePost toggles the caller's repost and notifies the owner on a new one
func (h *LikeHandler) SharePost(c echo.Context) error {
	postID, userID, err := engagementTarget(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	post, err := h.postRepository.TogglePostShare(ctx, postID, userID)
	if err != nil {
		return lookupError(err, "Post not found")
	}

	isShared := models.ContainsID(post.Shares, userID)
	h.metrics.ObserveToggle("share", isShared)
	if isShared {
		h.notifier.Notify(ctx, post, userID, models.NotificationRepost)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"sharesCount": len(post.Shares),
		"isShared":    isShared,
	})
}

// ViewPost records a unique view. Anonymous callers only read the count.
func (h *LikeHandler) ViewPost(c echo.Context) error {
	postID, err := parseID(c.Param("id"), "post id")
	if err != nil {
		return err
	}
	var req models.EngagementRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	userID, ok, err := optionalActingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var post *models.Post
	if ok {
		post, err = h.postRepository.AddPostView(ctx, postID, userID)
	} else {
		post, err = h.postRepository.GetPostByID(ctx, postID)
	}
	if err != nil {
		return lookupError(err, "Post not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "views": len(post.ViewedBy)})
}
