// internal/repository/property_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"propshare-admin/internal/domain"
)

// PropertyRepository defines the interface for property data operations.
type PropertyRepository interface {
	// CreateProperty inserts a new property row.
	CreateProperty(ctx context.Context, q DBExecutor, property *domain.Property) error
	// GetPropertyByID retrieves a property by id.
	GetPropertyByID(ctx context.Context, q DBExecutor, id int64) (*domain.Property, error)
	// GetPropertyByIDForUpdate retrieves a property and takes a row lock.
	GetPropertyByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Property, error)
	// ListProperties returns all properties.
	ListProperties(ctx context.Context, q DBExecutor) ([]domain.Property, error)
	// UpdateProperty updates mutable fields including price and share price.
	UpdateProperty(ctx context.Context, q DBExecutor, property *domain.Property) error
	// AdjustAvailableShares moves shares between the unsold pool and holders.
	AdjustAvailableShares(ctx context.Context, q DBExecutor, propertyID int64, delta int64) error
	// AdjustBalance changes the property's rent pool.
	AdjustBalance(ctx context.Context, q DBExecutor, propertyID int64, delta decimal.Decimal) error
	// AddPricePoint appends a value to the price history.
	AddPricePoint(ctx context.Context, q DBExecutor, propertyID int64, price decimal.Decimal) error
	// ListPriceHistory returns the price history, oldest first.
	ListPriceHistory(ctx context.Context, q DBExecutor, propertyID int64) ([]domain.PricePoint, error)
}
