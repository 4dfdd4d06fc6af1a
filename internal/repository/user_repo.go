// internal/repository/user_repo.go
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"propshare-admin/internal/domain"
)

// FundsDelta describes how a settlement moves a user's funds between the
// spendable balance and the two earmarked buckets. Zero fields are no-ops.
type FundsDelta struct {
	Balance           decimal.Decimal
	PendingIncome     decimal.Decimal
	PendingInvestment decimal.Decimal
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser inserts a new user row.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByIDForUpdate retrieves a user and takes a row lock for the
	// duration of the enclosing transaction.
	GetUserByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// FindByIdentifier retrieves a user by username or email.
	FindByIdentifier(ctx context.Context, q DBExecutor, identifier string) (*domain.User, error)
	// ListUsers returns a page of users plus the total count.
	ListUsers(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.User, int64, error)
	// ListByVerificationStatus returns the users in one verification state,
	// oldest submission first, plus the total count.
	ListByVerificationStatus(ctx context.Context, q DBExecutor, status domain.VerificationStatus, limit, offset int) ([]domain.User, int64, error)
	// ApplyFundsDelta adjusts balance, pending income, and pending investment
	// atomically on one row.
	ApplyFundsDelta(ctx context.Context, q DBExecutor, userID int64, delta FundsDelta) error
	// SetPendingIncome overwrites the pending income bucket (used for the
	// defensive clamp on sale rejection).
	SetPendingIncome(ctx context.Context, q DBExecutor, userID int64, value decimal.Decimal) error
	// UpdateProfile updates mutable profile fields.
	UpdateProfile(ctx context.Context, q DBExecutor, user *domain.User) error
	// UpdateVerification sets the identity-verification outcome.
	UpdateVerification(ctx context.Context, q DBExecutor, userID int64, status domain.VerificationStatus, rejectionReason *string, verifiedAt time.Time) (*domain.User, error)
}
