package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	defaultPostLimit = 50
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	mediaStore             media.Store
	logger                 logrus.FieldLogger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notificationRepo repositories.NotificationRepository, store media.Store, logger logrus.FieldLogger) *PostHandler {
	return &PostHandler{
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notificationRepo,
		mediaStore:             store,
		logger:                 logger,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post from a multipart form with an optional media file
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return lookupError(err, "User not found")
	}

	asset, err := readUpload(c, h.mediaStore)
	if err != nil {
		return err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" && asset == nil {
		return badRequest("Post content or media is required")
	}

	post := &models.Post{
		User:      user.ID,
		Content:   content,
		MediaType: models.MediaImage,
	}
	if asset != nil {
		post.MediaURL = asset.URL
		post.MediaID = asset.PublicID
		post.MediaType = models.MediaKind(asset.Kind)
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		discardUpload(c, h.mediaStore, h.logger, asset)
		return serverError(err)
	}

	view, err := buildPostView(ctx, h.userRepository, post)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": view})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c.Param("id"), "post id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return lookupError(err, "Post not found")
	}

	view, err := buildPostView(ctx, h.userRepository, post)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": view})
}

// GetPosts lists posts newest first, optionally by one author. A viewerId
// adds the viewer's like, share and save flags to every post.
func (h *PostHandler) GetPosts(c echo.Context) error {
	var req models.ListPostsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	filter := repositories.PostFilter{Skip: req.Skip, Limit: req.Limit}
	if filter.Limit == 0 {
		filter.Limit = defaultPostLimit
	}
	if req.UserID != "" {
		author, err := parseID(req.UserID, "userId")
		if err != nil {
			return err
		}
		filter.User = author
	}

	var viewer *models.User
	if req.ViewerID != "" {
		viewerID, err := parseID(req.ViewerID, "viewerId")
		if err != nil {
			return err
		}
		u, err := h.userRepository.GetUserByID(ctx, viewerID)
		switch {
		case err == nil:
			viewer = u
		case !errors.Is(err, repositories.ErrNotFound):
			return serverError(err)
		}
	}

	posts, err := h.postRepository.ListPosts(ctx, filter)
	if err != nil {
		return serverError(err)
	}

	views, err := buildPostViews(ctx, h.userRepository, posts, viewer)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "posts": views})
}

// DeletePost removes a post owned by the caller together with everything
// that references it: media, notifications and saved-post entries.
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := parseID(c.Param("id"), "post id")
	if err != nil {
		return err
	}
	var req models.DeletePostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return lookupError(err, "Post not found")
	}
	if post.User != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized to delete this post")
	}

	if post.MediaURL != "" {
		ref := post.MediaID
		if ref == "" {
			ref = post.MediaURL
		}
		if err := h.mediaStore.Delete(ctx, ref, media.Kind(post.MediaType)); err != nil {
			h.logger.WithError(err).WithField("post", postID.Hex()).Warn("failed to delete post media")
		}
	}

	if _, err := h.notificationRepository.DeleteNotificationsByPost(ctx, postID); err != nil {
		return serverError(err)
	}
	if err := h.userRepository.RemoveSavedPostEverywhere(ctx, postID); err != nil {
		return serverError(err)
	}
	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return lookupError(err, "Post not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted successfully"})
}
