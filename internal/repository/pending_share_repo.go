// internal/repository/pending_share_repo.go
package repository

import (
	"context"

	"propshare-admin/internal/domain"
)

// PendingShareRepository defines the interface for purchase-request data.
type PendingShareRepository interface {
	// CreatePendingShare inserts a new purchase request.
	CreatePendingShare(ctx context.Context, q DBExecutor, ps *domain.PendingShare) error
	// GetPendingShareForUpdate retrieves a request and takes a row lock, so
	// concurrent settlements of the same request serialize.
	GetPendingShareForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.PendingShare, error)
	// UpdateStatus transitions a request to a terminal status.
	UpdateStatus(ctx context.Context, q DBExecutor, id int64, status domain.PendingShareStatus) error
	// ListByStatus returns requests with the given status, newest first.
	ListByStatus(ctx context.Context, q DBExecutor, status domain.PendingShareStatus) ([]domain.PendingShare, error)
}
