package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	postRepository         repositories.PostRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, postRepo repositories.PostRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		postRepository:         postRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns the caller's pending friend requests and alerts, newest alerts first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	var req models.NotificationsRequest
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

	notifications, err := h.notificationRepository.ListNotificationsFor(ctx, userID)
	if err != nil {
		return serverError(err)
	}

	pending := user.PendingRequests()
	var senderIDs []primitive.ObjectID
	for _, r := range pending {
		senderIDs = models.AddID(senderIDs, r.From)
	}
	for _, n := range notifications {
		senderIDs = models.AddID(senderIDs, n.From)
	}
	users, err := loadUsers(ctx, h.userRepository, senderIDs)
	if err != nil {
		return serverError(err)
	}

	requests := make([]FriendRequestView, 0, len(pending))
	for _, r := range pending {
		requests = append(requests, FriendRequestView{FriendRequest: r, From: users.get(r.From)})
	}

	alerts, err := h.enrichNotifications(ctx, notifications, users)
	if err != nil {
		return serverError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"requests": requests,
		"alerts":   alerts,
	})
}

func (h *NotificationHandler) enrichNotifications(ctx context.Context, notifications []models.Notification, users userCache) ([]NotificationView, error) {
	var postIDs []primitive.ObjectID
	for _, n := range notifications {
		if n.Post != nil {
			postIDs = models.AddID(postIDs, *n.Post)
		}
	}

	postCache := make(map[primitive.ObjectID]*PostSummary, len(postIDs))
	if len(postIDs) > 0 {
		posts, err := h.postRepository.GetPostsByIDs(ctx, postIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			postCache[p.ID] = &PostSummary{ID: p.ID, Content: p.Content}
		}
	}

	enriched := make([]NotificationView, len(notifications))
	for i, n := range notifications {
		enriched[i] = NotificationView{Notification: n, From: users.get(n.From)}
		if n.Post != nil {
			enriched[i].Post = postCache[*n.Post]
		}
	}
	return enriched, nil
}

// GetUnreadCount returns the number of unread notifications of the caller
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	var req models.NotificationsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}

	count, err := h.notificationRepository.CountUnreadNotifications(c.Request().Context(), userID)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}

// MarkAsRead marks one notification addressed to the caller as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseID(c.Param("id"), "notification id")
	if err != nil {
		return err
	}
	var req models.MarkNotificationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkNotificationRead(c.Request().Context(), id, userID); err != nil {
		return lookupError(err, "Notification not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Notification marked as read"})
}

// MarkAllAsRead marks every notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	var req models.MarkNotificationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}

	updated, err := h.notificationRepository.MarkAllNotificationsRead(c.Request().Context(), userID)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "updated": updated})
}
