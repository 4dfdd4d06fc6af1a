// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// VerificationStatus is the state of a user's identity verification.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// User represents an account and its financial position. Balance is spendable;
// pending income and pending investment are earmarked for unsettled sales and
// purchases respectively and are held apart from balance until settlement.
type User struct {
	ID                int64           `db:"id" json:"id"`
	FullName          string          `db:"full_name" json:"fullName"`
	Email             string          `db:"email" json:"email"`
	Username          string          `db:"username" json:"username"`
	Phone             string          `db:"phone" json:"phone"`
	PasswordHash      string          `db:"password_hash" json:"-"`
	Role              Role            `db:"role" json:"role"`
	Balance           decimal.Decimal `db:"balance" json:"balance"`
	PendingIncome     decimal.Decimal `db:"pending_income" json:"pendingIncome"`
	PendingInvestment decimal.Decimal `db:"pending_investment" json:"pendingInvestment"`

	VerificationStatus          VerificationStatus `db:"verification_status" json:"verificationStatus"`
	VerificationDocument        *string            `db:"verification_document" json:"verificationDocument,omitempty"`
	VerificationRejectionReason *string            `db:"verification_rejection_reason" json:"verificationRejectionReason,omitempty"`
	VerifiedAt                  *time.Time         `db:"verified_at" json:"verifiedAt,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayName returns the name used on journal entries.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}

// IsAdmin reports whether the user may invoke settlement operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
