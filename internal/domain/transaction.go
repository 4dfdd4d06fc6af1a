// internal/domain/transaction.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a journal entry.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "Deposit"
	TransactionTypeWithdraw TransactionType = "Withdraw"
)

// TransactionSource tags what kind of event produced a journal entry.
type TransactionSource string

const (
	SourceCard       TransactionSource = "Card"
	SourceBank       TransactionSource = "Bank"
	SourceCash       TransactionSource = "Cash"
	SourceInvestment TransactionSource = "Investment"
	SourceDividend   TransactionSource = "Dividend"
	SourceRent       TransactionSource = "rent"
	SourceShareSale  TransactionSource = "Share Sale"
)

// Transaction is an immutable journal entry, appended in the same database
// transaction as the balance effect it records. Reference is derived
// deterministically from the triggering settlement record and carries a
// unique index, so a crash-and-retry of the same settlement cannot journal
// the same real-world event twice.
type Transaction struct {
	ID          int64             `db:"id" json:"id"`
	UserID      int64             `db:"user_id" json:"userId"`
	UserName    string            `db:"user_name" json:"userName"`
	Reference   string            `db:"reference" json:"reference"`
	Amount      decimal.Decimal   `db:"amount" json:"amount"`
	Type        TransactionType   `db:"type" json:"type"`
	Source      TransactionSource `db:"source" json:"source"`
	Description *string           `db:"description" json:"description,omitempty"`
	Date        time.Time         `db:"date" json:"date"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
}

// NewTransaction creates a journal entry dated now.
func NewTransaction(userID int64, userName, reference string, amount decimal.Decimal, txType TransactionType, source TransactionSource, description string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		UserID:      userID,
		UserName:    userName,
		Reference:   reference,
		Amount:      amount,
		Type:        txType,
		Source:      source,
		Description: &description,
		Date:        now,
		CreatedAt:   now,
	}
}

// Journal reference constructors. One settlement event maps to one reference.
func PurchaseReference(pendingShareID int64) string {
	return fmt.Sprintf("share_purchase_%d", pendingShareID)
}

func SaleReference(shareSaleID int64) string {
	return fmt.Sprintf("share_sale_%d", shareSaleID)
}

func WithdrawalReference(withdrawalID int64) string {
	return fmt.Sprintf("withdrawal_%d", withdrawalID)
}

func RentReference(distributionID, userID int64) string {
	return fmt.Sprintf("rent_%d_%d", distributionID, userID)
}
