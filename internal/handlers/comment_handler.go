package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	notifier       *Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifier *Notifier) *CommentHandler {
	return &CommentHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		notifier:       notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comment", h.CreateComment)
}

// CreateComment appends a comment and returns the post's populated comment list
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parseID(c.Param("id"), "post id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return badRequest("text is required")
	}
	ctx := c.Request().Context()

	post, err := h.postRepository.AddPostComment(ctx, postID, &models.Comment{User: userID, Text: text})
	if err != nil {
		return lookupError(err, "Post not found")
	}

	h.notifier.Notify(ctx, post, userID, models.NotificationComment)

	users, err := loadUsers(ctx, h.userRepository, postAuthorIDs([]models.Post{*post}))
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "comments": commentViews(post.Comments, users)})
}
