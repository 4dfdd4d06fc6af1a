// internal/repository/postgres/property_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/repository"
	"propshare-admin/internal/util"
)

const propertyColumns = `id, name, location, area, floors, rooms, share_id,
	current_price, share_price, number_of_shares, available_shares, balance,
	created_at, updated_at`

// PropertyRepository implements repository.PropertyRepository for PostgreSQL.
type PropertyRepository struct{}

// NewPropertyRepository creates a new PropertyRepository.
func NewPropertyRepository(db *sqlx.DB) repository.PropertyRepository {
	return &PropertyRepository{}
}

// CreateProperty inserts a new property row.
func (r *PropertyRepository) CreateProperty(ctx context.Context, q repository.DBExecutor, property *domain.Property) error {
	query := `INSERT INTO properties (name, location, area, floors, rooms, share_id,
				current_price, share_price, number_of_shares, available_shares, balance, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		property.Name, property.Location, property.Area, property.Floors, property.Rooms, property.ShareID,
		property.CurrentPrice, property.SharePrice, property.NumberOfShares, property.AvailableShares,
		property.Balance, property.CreatedAt, property.UpdatedAt,
	).Scan(&property.ID)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// GetPropertyByID retrieves a property by id.
func (r *PropertyRepository) GetPropertyByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Property, error) {
	var property domain.Property
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	if err := q.GetContext(ctx, &property, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property by ID %d: %w", id, err)
	}
	return &property, nil
}

// GetPropertyByIDForUpdate retrieves a property and locks the row.
func (r *PropertyRepository) GetPropertyByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Property, error) {
	var property domain.Property
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &property, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock property %d: %w", id, err)
	}
	return &property, nil
}

// ListProperties returns all properties.
func (r *PropertyRepository) ListProperties(ctx context.Context, q repository.DBExecutor) ([]domain.Property, error) {
	properties := []domain.Property{}
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &properties, query); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// UpdateProperty updates mutable fields including price and share price.
func (r *PropertyRepository) UpdateProperty(ctx context.Context, q repository.DBExecutor, property *domain.Property) error {
	query := `UPDATE properties
			  SET name = $1, location = $2, area = $3, floors = $4, rooms = $5,
				  current_price = $6, share_price = $7, updated_at = $8
			  WHERE id = $9`
	result, err := q.ExecContext(ctx, query,
		property.Name, property.Location, property.Area, property.Floors, property.Rooms,
		property.CurrentPrice, property.SharePrice, time.Now().UTC(), property.ID)
	if err != nil {
		return fmt.Errorf("failed to update property %d: %w", property.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating property %d: %w", property.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// AdjustAvailableShares moves shares between the unsold pool and holders. The
// table check constraints keep the pool within [0, number_of_shares].
func (r *PropertyRepository) AdjustAvailableShares(ctx context.Context, q repository.DBExecutor, propertyID int64, delta int64) error {
	query := `UPDATE properties SET available_shares = available_shares + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), propertyID)
	if err != nil {
		return fmt.Errorf("failed to adjust available shares for property %d: %w", propertyID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected adjusting shares for property %d: %w", propertyID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// AdjustBalance changes the property's rent pool.
func (r *PropertyRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, propertyID int64, delta decimal.Decimal) error {
	query := `UPDATE properties SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), propertyID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for property %d: %w", propertyID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected adjusting balance for property %d: %w", propertyID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// AddPricePoint appends a value to the price history.
func (r *PropertyRepository) AddPricePoint(ctx context.Context, q repository.DBExecutor, propertyID int64, price decimal.Decimal) error {
	query := `INSERT INTO property_price_history (property_id, price, recorded_at) VALUES ($1, $2, $3)`
	if _, err := q.ExecContext(ctx, query, propertyID, price, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record price point for property %d: %w", propertyID, err)
	}
	return nil
}

// ListPriceHistory returns the price history, oldest first.
func (r *PropertyRepository) ListPriceHistory(ctx context.Context, q repository.DBExecutor, propertyID int64) ([]domain.PricePoint, error) {
	points := []domain.PricePoint{}
	query := `SELECT id, property_id, price, recorded_at FROM property_price_history
			  WHERE property_id = $1 ORDER BY recorded_at ASC`
	if err := q.SelectContext(ctx, &points, query, propertyID); err != nil {
		return nil, fmt.Errorf("failed to list price history for property %d: %w", propertyID, err)
	}
	return points, nil
}
