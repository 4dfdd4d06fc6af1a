// internal/repository/postgres/share_sale_pg.go
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

const shareSaleColumns = `id, user_id, property_id, shares, total_value, status, processed_at, created_at, updated_at`

// ShareSaleRepository implements repository.ShareSaleRepository for PostgreSQL.
type ShareSaleRepository struct{}

// NewShareSaleRepository creates a new ShareSaleRepository.
func NewShareSaleRepository(db *sqlx.DB) repository.ShareSaleRepository {
	return &ShareSaleRepository{}
}

// CreateShareSale inserts a new resale request.
func (r *ShareSaleRepository) CreateShareSale(ctx context.Context, q repository.DBExecutor, sale *domain.ShareSale) error {
	now := time.Now().UTC()
	if sale.Status == "" {
		sale.Status = domain.ShareSalePending
	}
	query := `INSERT INTO share_sales (user_id, property_id, shares, total_value, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`
	err := q.QueryRowContext(ctx, query, sale.UserID, sale.PropertyID, sale.Shares, sale.TotalValue, sale.Status, now).
		Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create share sale: %w", err)
	}
	return nil
}

// GetShareSaleForUpdate retrieves a request and locks the row.
func (r *ShareSaleRepository) GetShareSaleForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.ShareSale, error) {
	var sale domain.ShareSale
	query := `SELECT ` + shareSaleColumns + ` FROM share_sales WHERE id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &sale, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock share sale %d: %w", id, err)
	}
	return &sale, nil
}

// UpdateStatus transitions a request to a terminal status.
func (r *ShareSaleRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.ShareSaleStatus, processedAt time.Time) error {
	query := `UPDATE share_sales SET status = $1, processed_at = $2, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, status, processedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update share sale %d status: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating share sale %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ListByStatus returns requests with the given status, newest first.
func (r *ShareSaleRepository) ListByStatus(ctx context.Context, q repository.DBExecutor, status domain.ShareSaleStatus) ([]domain.ShareSale, error) {
	sales := []domain.ShareSale{}
	query := `SELECT ` + shareSaleColumns + ` FROM share_sales WHERE status = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &sales, query, status); err != nil {
		return nil, fmt.Errorf("failed to list share sales: %w", err)
	}
	return sales, nil
}
