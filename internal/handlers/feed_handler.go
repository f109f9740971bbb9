package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxFeedPage keeps (page-1)*limit far from overflowing the skip
const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
	maxFeedPage      = 10000
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns a page of posts by the caller and their friends, with
// the caller's like, share and save flags
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := actingUserID(c, c.QueryParam("userId"), "userId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	switch {
	case page < 1:
		page = 1
	case page > maxFeedPage:
		page = maxFeedPage
	}
	if limit < 1 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}

	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return lookupError(err, "User not found")
	}

	filter := repositories.PostFilter{
		Authors: append([]primitive.ObjectID{user.ID}, user.Friends...),
		Skip:    int64((page - 1) * limit),
		Limit:   int64(limit),
	}
	posts, err := h.postRepository.ListPosts(ctx, filter)
	if err != nil {
		return serverError(err)
	}
	totalItems, err := h.postRepository.CountPosts(ctx, filter)
	if err != nil {
		return serverError(err)
	}

	views, err := buildPostViews(ctx, h.userRepository, posts, user)
	if err != nil {
		return serverError(err)
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": views,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}
