// internal/repository/notification_repo.go
package repository

import (
	"context"

	"propshare-admin/internal/domain"
)

// NotificationFilter narrows a notification listing.
type NotificationFilter string

const (
	NotificationsAll    NotificationFilter = "all"
	NotificationsGlobal NotificationFilter = "global"
	NotificationsUser   NotificationFilter = "user"
)

// NotificationRepository defines the interface for notification records.
type NotificationRepository interface {
	// CreateNotification inserts a notification row.
	CreateNotification(ctx context.Context, q DBExecutor, n *domain.Notification) error
	// GetNotificationByID retrieves one notification, or util.ErrNotFound.
	GetNotificationByID(ctx context.Context, q DBExecutor, id int64) (*domain.Notification, error)
	// ListNotifications returns a page of notifications, newest first, plus
	// the total count for the filter.
	ListNotifications(ctx context.Context, q DBExecutor, filter NotificationFilter, limit, offset int) ([]domain.Notification, int64, error)
	// MarkRead flags a notification as read and returns the updated row.
	MarkRead(ctx context.Context, q DBExecutor, id int64) (*domain.Notification, error)
	// DeleteNotification removes a notification, or util.ErrNotFound.
	DeleteNotification(ctx context.Context, q DBExecutor, id int64) error
}
