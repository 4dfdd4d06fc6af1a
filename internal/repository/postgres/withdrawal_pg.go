// internal/repository/postgres/withdrawal_pg.go
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

const withdrawalColumns = `id, user_id, amount, method, details, status, notes, processed_by, processed_at, created_at`

// WithdrawalRepository implements repository.WithdrawalRepository for PostgreSQL.
type WithdrawalRepository struct{}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(db *sqlx.DB) repository.WithdrawalRepository {
	return &WithdrawalRepository{}
}

// CreateWithdrawal inserts a new cash-out request.
func (r *WithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, w *domain.Withdrawal) error {
	if w.Status == "" {
		w.Status = domain.WithdrawalPending
	}
	query := `INSERT INTO withdrawals (user_id, amount, method, details, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, w.UserID, w.Amount, w.Method, w.Details, w.Status, time.Now().UTC()).
		Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

// GetWithdrawalForUpdate retrieves a request and locks the row.
func (r *WithdrawalRepository) GetWithdrawalForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &w, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock withdrawal %d: %w", id, err)
	}
	return &w, nil
}

// MarkProcessed transitions a request to a terminal status with audit stamps.
func (r *WithdrawalRepository) MarkProcessed(ctx context.Context, q repository.DBExecutor, id int64, status domain.WithdrawalStatus, notes *string, processedBy int64, processedAt time.Time) error {
	query := `UPDATE withdrawals SET status = $1, notes = $2, processed_by = $3, processed_at = $4 WHERE id = $5`
	result, err := q.ExecContext(ctx, query, status, notes, processedBy, processedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark withdrawal %d processed: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected marking withdrawal %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ListByStatus returns requests with the given status, newest first.
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, q repository.DBExecutor, status domain.WithdrawalStatus) ([]domain.Withdrawal, error) {
	withdrawals := []domain.Withdrawal{}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE status = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &withdrawals, query, status); err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}
