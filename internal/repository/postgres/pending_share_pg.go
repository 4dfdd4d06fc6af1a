// internal/repository/postgres/pending_share_pg.go
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

const pendingShareColumns = `id, user_id, property_id, shares, total_cost, status, created_at, updated_at`

// PendingShareRepository implements repository.PendingShareRepository for PostgreSQL.
type PendingShareRepository struct{}

// NewPendingShareRepository creates a new PendingShareRepository.
func NewPendingShareRepository(db *sqlx.DB) repository.PendingShareRepository {
	return &PendingShareRepository{}
}

// CreatePendingShare inserts a new purchase request.
func (r *PendingShareRepository) CreatePendingShare(ctx context.Context, q repository.DBExecutor, ps *domain.PendingShare) error {
	now := time.Now().UTC()
	if ps.Status == "" {
		ps.Status = domain.PendingSharePending
	}
	query := `INSERT INTO pending_shares (user_id, property_id, shares, total_cost, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`
	err := q.QueryRowContext(ctx, query, ps.UserID, ps.PropertyID, ps.Shares, ps.TotalCost, ps.Status, now).
		Scan(&ps.ID, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pending share: %w", err)
	}
	return nil
}

// GetPendingShareForUpdate retrieves a request and locks the row.
func (r *PendingShareRepository) GetPendingShareForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PendingShare, error) {
	var ps domain.PendingShare
	query := `SELECT ` + pendingShareColumns + ` FROM pending_shares WHERE id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &ps, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock pending share %d: %w", id, err)
	}
	return &ps, nil
}

// UpdateStatus transitions a request to a terminal status.
func (r *PendingShareRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.PendingShareStatus) error {
	query := `UPDATE pending_shares SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update pending share %d status: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating pending share %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ListByStatus returns requests with the given status, newest first.
func (r *PendingShareRepository) ListByStatus(ctx context.Context, q repository.DBExecutor, status domain.PendingShareStatus) ([]domain.PendingShare, error) {
	shares := []domain.PendingShare{}
	query := `SELECT ` + pendingShareColumns + ` FROM pending_shares WHERE status = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &shares, query, status); err != nil {
		return nil, fmt.Errorf("failed to list pending shares: %w", err)
	}
	return shares, nil
}
