// internal/repository/holding_repo.go
package repository

import (
	"context"

	"propshare-admin/internal/domain"
)

// HoldingRepository manages cap-table rows. All mutations run inside a
// settlement transaction.
type HoldingRepository interface {
	// GetHolding retrieves one holder's entry, or util.ErrNotFound.
	GetHolding(ctx context.Context, q DBExecutor, propertyID, userID int64) (*domain.Holding, error)
	// AddShares upserts a holder's entry, incrementing if it already exists.
	AddShares(ctx context.Context, q DBExecutor, propertyID, userID, shares int64) error
	// RemoveShares decrements a holder's entry and deletes it when it reaches
	// zero. Returns util.ErrInsufficientShares if the holder owns fewer.
	RemoveShares(ctx context.Context, q DBExecutor, propertyID, userID, shares int64) error
	// ListByPropertyForUpdate returns the full cap table of a property in
	// user-id order, locking every row so the rent denominator cannot move.
	ListByPropertyForUpdate(ctx context.Context, q DBExecutor, propertyID int64) ([]domain.Holding, error)
	// ListByUser returns a user's portfolio.
	ListByUser(ctx context.Context, q DBExecutor, userID int64) ([]domain.Holding, error)
	// TotalShares sums all held shares of a property.
	TotalShares(ctx context.Context, q DBExecutor, propertyID int64) (int64, error)
}
