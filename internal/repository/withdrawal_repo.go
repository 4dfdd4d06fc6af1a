// internal/repository/withdrawal_repo.go
package repository

import (
	"context"
	"time"

	"propshare-admin/internal/domain"
)

// WithdrawalRepository defines the interface for cash-out request data.
type WithdrawalRepository interface {
	// CreateWithdrawal inserts a new cash-out request.
	CreateWithdrawal(ctx context.Context, q DBExecutor, w *domain.Withdrawal) error
	// GetWithdrawalForUpdate retrieves a request and takes a row lock.
	GetWithdrawalForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Withdrawal, error)
	// MarkProcessed transitions a request to a terminal status and stamps the
	// processing admin, time, and optional note.
	MarkProcessed(ctx context.Context, q DBExecutor, id int64, status domain.WithdrawalStatus, notes *string, processedBy int64, processedAt time.Time) error
	// ListByStatus returns requests with the given status, newest first.
	ListByStatus(ctx context.Context, q DBExecutor, status domain.WithdrawalStatus) ([]domain.Withdrawal, error)
}
