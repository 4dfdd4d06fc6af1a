// internal/repository/postgres/user_pg.go
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

const userColumns = `id, full_name, email, username, phone, password_hash, role,
	balance, pending_income, pending_investment,
	verification_status, verification_document, verification_rejection_reason, verified_at,
	created_at, updated_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository. Methods receive a DBExecutor
// per call, so the struct holds no connection.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user row.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (full_name, email, username, phone, password_hash, role,
				balance, pending_income, pending_investment, verification_status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
		user.UpdatedAt = now
	}
	if user.VerificationStatus == "" {
		user.VerificationStatus = domain.VerificationUnverified
	}
	err := q.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.Username, user.Phone, user.PasswordHash, user.Role,
		user.Balance, user.PendingIncome, user.PendingInvestment, user.VerificationStatus,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by id.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := q.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByIDForUpdate retrieves a user and locks the row.
func (r *UserRepository) GetUserByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user %d: %w", id, err)
	}
	return &user, nil
}

// FindByIdentifier retrieves a user by username or email.
func (r *UserRepository) FindByIdentifier(ctx context.Context, q repository.DBExecutor, identifier string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 LIMIT 1`
	if err := q.GetContext(ctx, &user, query, identifier); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by identifier '%s': %w", identifier, err)
	}
	return &user, nil
}

// ListUsers returns a page of users plus the total count.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.User, int64, error) {
	users := []domain.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return users, totalCount, nil
}

// ListByVerificationStatus returns users in one verification state, oldest
// submission first.
func (r *UserRepository) ListByVerificationStatus(ctx context.Context, q repository.DBExecutor, status domain.VerificationStatus, limit, offset int) ([]domain.User, int64, error) {
	users := []domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_status = $1 ORDER BY updated_at ASC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &users, query, status, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list users by verification status: %w", err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM users WHERE verification_status = $1`, status); err != nil {
		return nil, 0, fmt.Errorf("failed to count users by verification status: %w", err)
	}
	return users, totalCount, nil
}

// ApplyFundsDelta adjusts the three fund buckets on one row. The database
// check constraints reject any adjustment that would drive a bucket negative.
func (r *UserRepository) ApplyFundsDelta(ctx context.Context, q repository.DBExecutor, userID int64, delta repository.FundsDelta) error {
	query := `UPDATE users
			  SET balance = balance + $1,
				  pending_income = pending_income + $2,
				  pending_investment = pending_investment + $3,
				  updated_at = $4
			  WHERE id = $5`
	result, err := q.ExecContext(ctx, query,
		delta.Balance, delta.PendingIncome, delta.PendingInvestment, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to adjust funds for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected adjusting funds for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// SetPendingIncome overwrites the pending income bucket.
func (r *UserRepository) SetPendingIncome(ctx context.Context, q repository.DBExecutor, userID int64, value decimal.Decimal) error {
	query := `UPDATE users SET pending_income = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, value, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to set pending income for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected setting pending income for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// UpdateProfile updates mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `UPDATE users SET full_name = $1, email = $2, phone = $3, updated_at = $4 WHERE id = $5`
	result, err := q.ExecContext(ctx, query, user.FullName, user.Email, user.Phone, time.Now().UTC(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating user %d: %w", user.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// UpdateVerification sets the identity-verification outcome and returns the
// updated user.
func (r *UserRepository) UpdateVerification(ctx context.Context, q repository.DBExecutor, userID int64, status domain.VerificationStatus, rejectionReason *string, verifiedAt time.Time) (*domain.User, error) {
	query := `UPDATE users
			  SET verification_status = $1,
				  verification_rejection_reason = $2,
				  verified_at = $3,
				  updated_at = $3
			  WHERE id = $4
			  RETURNING ` + userColumns
	var user domain.User
	if err := q.GetContext(ctx, &user, query, status, rejectionReason, verifiedAt, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update verification for user %d: %w", userID, err)
	}
	return &user, nil
}
