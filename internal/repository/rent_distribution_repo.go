// internal/repository/rent_distribution_repo.go
package repository

import (
	"context"

	"propshare-admin/internal/domain"
)

// RentDistributionRepository records rent payout batches.
type RentDistributionRepository interface {
	// CreateRentDistribution inserts a batch record and fills in its id, which
	// anchors the per-holder journal references.
	CreateRentDistribution(ctx context.Context, q DBExecutor, d *domain.RentDistribution) error
}
