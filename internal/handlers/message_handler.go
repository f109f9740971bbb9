package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// MessageHandler handles direct messages between users
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
	mediaStore        media.Store
	logger            logrus.FieldLogger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, store media.Store, logger logrus.FieldLogger) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
		mediaStore:        store,
		logger:            logger,
	}
}

// RegisterMessageRoutes registers message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages/:userId/:otherUserId", h.GetConversation)
	g.POST("/messages", h.SendMessage)
}

// GetConversation returns the messages exchanged by two users, oldest first
func (h *MessageHandler) GetConversation(c echo.Context) error {
	userID, err := actingUserID(c, c.Param("userId"), "userId")
	if err != nil {
		return err
	}
	otherID, err := parseID(c.Param("otherUserId"), "otherUserId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	messages, err := h.messageRepository.ListConversation(ctx, userID, otherID)
	if err != nil {
		return serverError(err)
	}
	views, err := buildMessageViews(ctx, h.messageRepository, messages)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "messages": views})
}

// SendMessage stores a message with optional media and reply reference
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	senderID, err := actingUserID(c, req.Sender, "sender")
	if err != nil {
		return err
	}
	receiverID, err := parseID(req.Receiver, "receiver")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByID(ctx, senderID); err != nil {
		return lookupError(err, "Sender not found")
	}
	if _, err := h.userRepository.GetUserByID(ctx, receiverID); err != nil {
		return lookupError(err, "Receiver not found")
	}

	msg := &models.Message{
		Sender:    senderID,
		Receiver:  receiverID,
		Content:   strings.TrimSpace(req.Content),
		MediaType: models.MediaImage,
	}

	var reply *models.Message
	if req.ReplyTo != "" {
		replyID, err := parseID(req.ReplyTo, "replyTo")
		if err != nil {
			return err
		}
		reply, err = h.messageRepository.GetMessageByID(ctx, replyID)
		if err != nil {
			return lookupError(err, "Original message not found")
		}
		msg.ReplyTo = &replyID
	}

	asset, err := readUpload(c, h.mediaStore)
	if err != nil {
		return err
	}
	if msg.Content == "" && asset == nil {
		return badRequest("Message content or media is required")
	}
	if asset != nil {
		msg.MediaURL = asset.URL
		msg.MediaType = models.MediaKind(asset.Kind)
	}

	if err := h.messageRepository.CreateMessage(ctx, msg); err != nil {
		discardUpload(c, h.mediaStore, h.logger, asset)
		return serverError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": MessageView{Message: *msg, ReplyTo: reply},
	})
}
