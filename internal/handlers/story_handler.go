package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryHandler handles HTTP requests related to stories
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
	mediaStore      media.Store
	ttl             time.Duration
	logger          logrus.FieldLogger
	now             func() time.Time
}

// NewStoryHandler creates a new StoryHandler. Stories older than ttl are not listed.
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository, store media.Store, ttl time.Duration, logger logrus.FieldLogger) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		userRepository:  userRepo,
		mediaStore:      store,
		ttl:             ttl,
		logger:          logger,
		now:             time.Now,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStories)
	g.POST("/stories/:id/view", h.ViewStory)
}

// CreateStory publishes an image or video story
func (h *StoryHandler) CreateStory(c echo.Context) error {
	var req models.CreateStoryRequest
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
	if asset == nil {
		return badRequest("Image is required")
	}

	story := &models.Story{
		User:      userID,
		MediaURL:  asset.URL,
		MediaID:   asset.PublicID,
		MediaType: models.MediaKind(asset.Kind),
	}
	if err := h.storyRepository.CreateStory(ctx, story); err != nil {
		discardUpload(c, h.mediaStore, h.logger, asset)
		return serverError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"story":   StoryView{Story: *story, User: user.ToCompact()},
	})
}

// GetStories lists the live stories of the caller and their friends, newest first
func (h *StoryHandler) GetStories(c echo.Context) error {
	var req models.ListStoriesRequest
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

	authors := append([]primitive.ObjectID{user.ID}, user.Friends...)
	stories, err := h.storyRepository.ListLiveStories(ctx, authors, h.now().Add(-h.ttl))
	if err != nil {
		return serverError(err)
	}

	users, err := loadUsers(ctx, h.userRepository, authors)
	if err != nil {
		return serverError(err)
	}
	views := make([]StoryView, 0, len(stories))
	for _, st := range stories {
		views = append(views, StoryView{Story: st, User: users.get(st.User)})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stories": views})
}

// ViewStory records the caller as a viewer once
func (h *StoryHandler) ViewStory(c echo.Context) error {
	storyID, err := parseID(c.Param("id"), "story id")
	if err != nil {
		return err
	}
	var req models.EngagementRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}

	story, err := h.storyRepository.AddStoryViewer(c.Request().Context(), storyID, userID)
	if err != nil {
		return lookupError(err, "Story not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "viewers": len(story.Viewers)})
}
