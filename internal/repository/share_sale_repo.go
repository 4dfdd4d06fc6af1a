// internal/repository/share_sale_repo.go
package repository

import (
	"context"
	"time"

	"propshare-admin/internal/domain"
)

// ShareSaleRepository defines the interface for resale-request data.
type ShareSaleRepository interface {
	// CreateShareSale inserts a new resale request.
	CreateShareSale(ctx context.Context, q DBExecutor, sale *domain.ShareSale) error
	// GetShareSaleForUpdate retrieves a request and takes a row lock.
	GetShareSaleForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.ShareSale, error)
	// UpdateStatus transitions a request to a terminal status, stamping the
	// processing time.
	UpdateStatus(ctx context.Context, q DBExecutor, id int64, status domain.ShareSaleStatus, processedAt time.Time) error
	// ListByStatus returns requests with the given status, newest first.
	ListByStatus(ctx context.Context, q DBExecutor, status domain.ShareSaleStatus) ([]domain.ShareSale, error)
}
