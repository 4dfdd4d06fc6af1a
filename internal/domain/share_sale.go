// internal/domain/share_sale.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShareSaleStatus is the settlement state of a resale request.
type ShareSaleStatus string

const (
	ShareSalePending  ShareSaleStatus = "pending"
	ShareSaleApproved ShareSaleStatus = "approved"
	ShareSaleRejected ShareSaleStatus = "rejected"
)

// ShareSale is a requested resale of owned shares back to the available pool.
// TotalValue is earmarked as the seller's pending income at request time.
type ShareSale struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"userId"`
	PropertyID  int64           `db:"property_id" json:"propertyId"`
	Shares      int64           `db:"shares" json:"shares"`
	TotalValue  decimal.Decimal `db:"total_value" json:"totalValue"`
	Status      ShareSaleStatus `db:"status" json:"status"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processedAt,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}
