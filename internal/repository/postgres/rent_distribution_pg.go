// internal/repository/postgres/rent_distribution_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/repository"
)

// RentDistributionRepository implements repository.RentDistributionRepository
// for PostgreSQL.
type RentDistributionRepository struct{}

// NewRentDistributionRepository creates a new RentDistributionRepository.
func NewRentDistributionRepository(db *sqlx.DB) repository.RentDistributionRepository {
	return &RentDistributionRepository{}
}

// CreateRentDistribution inserts a batch record and fills in its id.
func (r *RentDistributionRepository) CreateRentDistribution(ctx context.Context, q repository.DBExecutor, d *domain.RentDistribution) error {
	query := `INSERT INTO rent_distributions (property_id, amount, shareholders, distributed_by, created_at)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, d.PropertyID, d.Amount, d.Shareholders, d.DistributedBy, time.Now().UTC()).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rent distribution: %w", err)
	}
	return nil
}
