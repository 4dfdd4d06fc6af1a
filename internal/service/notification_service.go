// internal/service/notification_service.go
package service

import (
	"context"
	"strings"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/notify"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/util"
)

// NotificationInput carries a new announcement. A nil UserID makes it global.
type NotificationInput struct {
	Title      string
	Message    string
	UserID     *int64
	PropertyID *int64
}

// NotificationService stores announcements and hands them to the push sender.
type NotificationService interface {
	CreateNotification(ctx context.Context, input NotificationInput) (*domain.Notification, error)
	GetNotification(ctx context.Context, id int64) (*domain.Notification, error)
	ListNotifications(ctx context.Context, filter repository.NotificationFilter, limit, offset int) ([]domain.Notification, int64, error)
	MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error)
	DeleteNotification(ctx context.Context, id int64) error
}

type notificationService struct {
	dbExecutor repository.DBExecutor
	repo       repository.NotificationRepository
	notifier   *notify.Notifier
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(dbExecutor repository.DBExecutor, repo repository.NotificationRepository, notifier *notify.Notifier) NotificationService {
	return &notificationService{dbExecutor: dbExecutor, repo: repo, notifier: notifier}
}

func (s *notificationService) CreateNotification(ctx context.Context, input NotificationInput) (*domain.Notification, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Message = strings.TrimSpace(input.Message)
	if input.Title == "" || input.Message == "" {
		return nil, util.ErrInvalidInput
	}

	notification := &domain.Notification{
		Title:      input.Title,
		Message:    input.Message,
		UserID:     input.UserID,
		PropertyID: input.PropertyID,
		IsGlobal:   input.UserID == nil,
	}
	if err := s.repo.CreateNotification(ctx, s.dbExecutor, notification); err != nil {
		return nil, err
	}

	// The row is the durable record; push delivery is best effort.
	if notification.IsGlobal {
		s.notifier.Dispatch(notification.Title, notification.Message)
	} else {
		s.notifier.Dispatch(notification.Title, notification.Message, *notification.UserID)
	}
	return notification, nil
}

func (s *notificationService) GetNotification(ctx context.Context, id int64) (*domain.Notification, error) {
	return s.repo.GetNotificationByID(ctx, s.dbExecutor, id)
}

func (s *notificationService) ListNotifications(ctx context.Context, filter repository.NotificationFilter, limit, offset int) ([]domain.Notification, int64, error) {
	switch filter {
	case repository.NotificationsAll, repository.NotificationsGlobal, repository.NotificationsUser:
	default:
		filter = repository.NotificationsAll
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListNotifications(ctx, s.dbExecutor, filter, limit, offset)
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, s.dbExecutor, id)
}

func (s *notificationService) DeleteNotification(ctx context.Context, id int64) error {
	return s.repo.DeleteNotification(ctx, s.dbExecutor, id)
}
