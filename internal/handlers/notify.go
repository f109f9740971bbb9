package handlers

import (
	"context"

	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/pkg/metrics"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier writes engagement notifications for post owners
type Notifier struct {
	notificationRepository repositories.NotificationRepository
	metrics                *metrics.Metrics
	logger                 logrus.FieldLogger
}

// NewNotifier creates a Notifier. m may be nil.
func NewNotifier(notificationRepo repositories.NotificationRepository, m *metrics.Metrics, logger logrus.FieldLogger) *Notifier {
	return &Notifier{notificationRepository: notificationRepo, metrics: m, logger: logger}
}

// Notify records that from acted on post. Self-actions are skipped and a
// failed write is logged without failing the action that caused it.
func (n *Notifier) Notify(ctx context.Context, post *models.Post, from primitive.ObjectID, kind models.NotificationType) {
	if post.User == from {
		return
	}
	postID := post.ID
	notification := &models.Notification{
		To:   post.User,
		From: from,
		Type: kind,
		Post: &postID,
	}
	if err := n.notificationRepository.CreateNotification(ctx, notification); err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"post": postID.Hex(),
			"type": kind,
		}).Error("failed to create notification")
		return
	}
	n.metrics.ObserveNotification(string(kind))
}
