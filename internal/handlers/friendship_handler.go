package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler handles HTTP requests related to the friend graph
type FriendshipHandler struct {
	userRepository repositories.UserRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(userRepo repositories.UserRepository) *FriendshipHandler {
	return &FriendshipHandler{userRepository: userRepo}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.POST("/friends/accept", h.AcceptFriendRequest)
	g.POST("/friends/reject", h.RejectFriendRequest)
	g.DELETE("/friends/:friendId", h.RemoveFriend)
}

// friendshipError translates the friend-graph sentinels into HTTP errors
func friendshipError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, repositories.ErrAlreadyFriends):
		return badRequest("Already friends")
	case errors.Is(err, repositories.ErrRequestExists):
		return badRequest("Request already sent")
	case errors.Is(err, repositories.ErrRequestNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
	}
	return serverError(err)
}

// SendFriendRequest appends a pending request to the target's list
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	var req models.SendFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	fromID, err := actingUserID(c, req.FromID, "fromId")
	if err != nil {
		return err
	}
	toID, err := parseID(req.ToID, "toId")
	if err != nil {
		return err
	}
	if fromID == toID {
		return badRequest("You cannot send a friend request to yourself")
	}
	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByID(ctx, fromID); err != nil {
		return friendshipError(err)
	}
	if _, err := h.userRepository.AddFriendRequest(ctx, toID, fromID); err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Friend request sent"})
}

// AcceptFriendRequest removes the request and links both users as friends
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	var req models.AcceptFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}
	requestID, err := parseID(req.RequestID, "requestId")
	if err != nil {
		return err
	}
	fromID, err := parseID(req.FromID, "fromId")
	if err != nil {
		return err
	}

	if err := h.userRepository.AcceptFriendRequest(c.Request().Context(), userID, requestID, fromID); err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Friend request accepted"})
}

// RejectFriendRequest drops a pending request without linking the users
func (h *FriendshipHandler) RejectFriendRequest(c echo.Context) error {
	var req models.RejectFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}
	requestID, err := parseID(req.RequestID, "requestId")
	if err != nil {
		return err
	}

	if err := h.userRepository.RejectFriendRequest(c.Request().Context(), userID, requestID); err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Friend request rejected"})
}

// RemoveFriend unlinks the caller and friendId in both directions
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	friendID, err := parseID(c.Param("friendId"), "friend id")
	if err != nil {
		return err
	}
	var req models.UnfriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, err := actingUserID(c, req.UserID, "userId")
	if err != nil {
		return err
	}

	if err := h.userRepository.RemoveFriend(c.Request().Context(), userID, friendID); err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Friend removed"})
}
