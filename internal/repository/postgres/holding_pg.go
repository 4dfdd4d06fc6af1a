// internal/repository/postgres/holding_pg.go
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

// HoldingRepository implements repository.HoldingRepository for PostgreSQL.
type HoldingRepository struct{}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(db *sqlx.DB) repository.HoldingRepository {
	return &HoldingRepository{}
}

// GetHolding retrieves one holder's entry.
func (r *HoldingRepository) GetHolding(ctx context.Context, q repository.DBExecutor, propertyID, userID int64) (*domain.Holding, error) {
	var h domain.Holding
	query := `SELECT id, property_id, user_id, shares, created_at, updated_at
			  FROM holdings WHERE property_id = $1 AND user_id = $2`
	if err := q.GetContext(ctx, &h, query, propertyID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get holding (property %d, user %d): %w", propertyID, userID, err)
	}
	return &h, nil
}

// AddShares upserts a holder's entry, incrementing if it already exists.
func (r *HoldingRepository) AddShares(ctx context.Context, q repository.DBExecutor, propertyID, userID, shares int64) error {
	now := time.Now().UTC()
	query := `INSERT INTO holdings (property_id, user_id, shares, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $4)
			  ON CONFLICT (property_id, user_id)
			  DO UPDATE SET shares = holdings.shares + EXCLUDED.shares, updated_at = EXCLUDED.updated_at`
	if _, err := q.ExecContext(ctx, query, propertyID, userID, shares, now); err != nil {
		return fmt.Errorf("failed to add %d shares (property %d, user %d): %w", shares, propertyID, userID, err)
	}
	return nil
}

// RemoveShares decrements a holder's entry and deletes it at zero, so no row
// ever carries a non-positive share count.
func (r *HoldingRepository) RemoveShares(ctx context.Context, q repository.DBExecutor, propertyID, userID, shares int64) error {
	var current int64
	lockQuery := `SELECT shares FROM holdings WHERE property_id = $1 AND user_id = $2 FOR UPDATE`
	if err := q.GetContext(ctx, &current, lockQuery, propertyID, userID); err != nil {
		if err == sql.ErrNoRows {
			return util.ErrInsufficientShares
		}
		return fmt.Errorf("failed to lock holding (property %d, user %d): %w", propertyID, userID, err)
	}
	if current < shares {
		return util.ErrInsufficientShares
	}

	if current == shares {
		query := `DELETE FROM holdings WHERE property_id = $1 AND user_id = $2`
		if _, err := q.ExecContext(ctx, query, propertyID, userID); err != nil {
			return fmt.Errorf("failed to delete holding (property %d, user %d): %w", propertyID, userID, err)
		}
		return nil
	}

	query := `UPDATE holdings SET shares = shares - $1, updated_at = $2
			  WHERE property_id = $3 AND user_id = $4`
	if _, err := q.ExecContext(ctx, query, shares, time.Now().UTC(), propertyID, userID); err != nil {
		return fmt.Errorf("failed to remove %d shares (property %d, user %d): %w", shares, propertyID, userID, err)
	}
	return nil
}

// ListByPropertyForUpdate returns the full cap table of a property in user-id
// order, locking every row. The fixed order keeps concurrent settlements that
// touch the same holders from deadlocking.
func (r *HoldingRepository) ListByPropertyForUpdate(ctx context.Context, q repository.DBExecutor, propertyID int64) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `SELECT id, property_id, user_id, shares, created_at, updated_at
			  FROM holdings WHERE property_id = $1 ORDER BY user_id FOR UPDATE`
	if err := q.SelectContext(ctx, &holdings, query, propertyID); err != nil {
		return nil, fmt.Errorf("failed to lock cap table for property %d: %w", propertyID, err)
	}
	return holdings, nil
}

// ListByUser returns a user's portfolio.
func (r *HoldingRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `SELECT id, property_id, user_id, shares, created_at, updated_at
			  FROM holdings WHERE user_id = $1 ORDER BY property_id`
	if err := q.SelectContext(ctx, &holdings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}

// TotalShares sums all held shares of a property.
func (r *HoldingRepository) TotalShares(ctx context.Context, q repository.DBExecutor, propertyID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(shares), 0) FROM holdings WHERE property_id = $1`
	if err := q.GetContext(ctx, &total, query, propertyID); err != nil {
		return 0, fmt.Errorf("failed to total shares for property %d: %w", propertyID, err)
	}
	return total, nil
}
