// internal/repository/postgres/notification_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/util"
)

// NotificationRepository implements repository.NotificationRepository for PostgreSQL.
type NotificationRepository struct{}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &NotificationRepository{}
}

// CreateNotification inserts a notification row.
func (r *NotificationRepository) CreateNotification(ctx context.Context, q repository.DBExecutor, n *domain.Notification) error {
	query := `INSERT INTO notifications (title, message, property_id, user_id, is_global, is_read, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, n.Title, n.Message, n.PropertyID, n.UserID, n.IsGlobal, n.IsRead, time.Now().UTC()).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetNotificationByID retrieves one notification by id.
func (r *NotificationRepository) GetNotificationByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Notification, error) {
	var n domain.Notification
	query := `SELECT id, title, message, property_id, user_id, is_global, is_read, created_at
			  FROM notifications WHERE id = $1`
	if err := q.GetContext(ctx, &n, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification %d: %w", id, err)
	}
	return &n, nil
}

// ListNotifications returns a page of notifications, newest first.
func (r *NotificationRepository) ListNotifications(ctx context.Context, q repository.DBExecutor, filter repository.NotificationFilter, limit, offset int) ([]domain.Notification, int64, error) {
	where := ""
	switch filter {
	case repository.NotificationsGlobal:
		where = "WHERE is_global = TRUE"
	case repository.NotificationsUser:
		where = "WHERE is_global = FALSE"
	}

	notifications := []domain.Notification{}
	query := fmt.Sprintf(`SELECT id, title, message, property_id, user_id, is_global, is_read, created_at
			  FROM notifications %s ORDER BY created_at DESC LIMIT $1 OFFSET $2`, where)
	if err := q.SelectContext(ctx, &notifications, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	var totalCount int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM notifications %s`, where)
	if err := q.GetContext(ctx, &totalCount, countQuery); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return notifications, totalCount, nil
}

// MarkRead flags a notification as read and returns the updated row.
func (r *NotificationRepository) MarkRead(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Notification, error) {
	var n domain.Notification
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1
			  RETURNING id, title, message, property_id, user_id, is_global, is_read, created_at`
	if err := q.GetContext(ctx, &n, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	return &n, nil
}

// DeleteNotification removes a notification row.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting notification %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
