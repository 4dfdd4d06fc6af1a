// internal/domain/pending_share.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingShareStatus is the settlement state of a purchase request.
type PendingShareStatus string

const (
	PendingSharePending   PendingShareStatus = "pending"
	PendingShareCompleted PendingShareStatus = "completed"
	PendingShareRejected  PendingShareStatus = "rejected"
)

// PendingShare is a requested share purchase awaiting settlement. It is
// created by the user-facing flow (which earmarks TotalCost as the buyer's
// pending investment) and transitions exactly once to a terminal status.
type PendingShare struct {
	ID         int64              `db:"id" json:"id"`
	UserID     int64              `db:"user_id" json:"userId"`
	PropertyID int64              `db:"property_id" json:"propertyId"`
	Shares     int64              `db:"shares" json:"shares"`
	TotalCost  decimal.Decimal    `db:"total_cost" json:"totalCost"`
	Status     PendingShareStatus `db:"status" json:"status"`
	CreatedAt  time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `db:"updated_at" json:"updatedAt"`
}
