package repository

import (
	"context"

	"mindmate-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository works on models directly; notifications are
// write-mostly rows delivered as-is over the websocket and REST feeds.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}
