// internal/domain/notification.go
package domain

import "time"

// Notification is an admin-authored message, either global or addressed to a
// single user. Delivery to the push subsystem is fire-and-forget; the row is
// the durable record.
type Notification struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Message    string    `db:"message" json:"message"`
	PropertyID *int64    `db:"property_id" json:"propertyId,omitempty"`
	UserID     *int64    `db:"user_id" json:"userId,omitempty"`
	IsGlobal   bool      `db:"is_global" json:"isGlobal"`
	IsRead     bool      `db:"is_read" json:"isRead"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
