// internal/domain/rent_distribution.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentDistribution records one rent payout batch for a property. Its id
// anchors the deterministic journal references of the per-holder credits.
type RentDistribution struct {
	ID            int64           `db:"id" json:"id"`
	PropertyID    int64           `db:"property_id" json:"propertyId"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Shareholders  int64           `db:"shareholders" json:"shareholders"`
	DistributedBy int64           `db:"distributed_by" json:"distributedBy"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}
